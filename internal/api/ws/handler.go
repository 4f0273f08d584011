package ws

import (
	"encoding/base64"
	"net/http"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/demolauncher/internal/domain/screen"
	"github.com/GriffinCanCode/demolauncher/internal/infrastructure/logging"
	"github.com/GriffinCanCode/demolauncher/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/demolauncher/internal/shared/types"
	"github.com/GriffinCanCode/demolauncher/internal/shared/utils"
)

// Frame types
const (
	FrameScreen = "screen"
	FrameOutput = "output"
	FrameExit   = "exit"
	FrameError  = "error"
	FramePong   = "pong"
)

// DefaultPollInterval is how often captured output is forwarded
const DefaultPollInterval = 100 * time.Millisecond

const writeWait = 5 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Origin policy is enforced by the CORS middleware
	},
}

// clientMessage is a message sent by the viewer
type clientMessage struct {
	Type string `json:"type"`
}

// Handler streams a run screen to a websocket viewer. The viewer plays the
// part of the visible screen: when it goes away the run screen is stopped.
type Handler struct {
	screens      *screen.Manager
	logger       *logging.Logger
	metrics      *monitoring.Metrics
	pollInterval time.Duration
}

// NewHandler creates a new WebSocket handler
func NewHandler(screens *screen.Manager, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Handler{
		screens:      screens,
		logger:       logger.Named("ws"),
		pollInterval: DefaultPollInterval,
	}
}

// WithMetrics adds metrics tracking to the handler
func (h *Handler) WithMetrics(metrics *monitoring.Metrics) *Handler {
	h.metrics = metrics
	return h
}

// WithPollInterval overrides the output forwarding interval
func (h *Handler) WithPollInterval(d time.Duration) *Handler {
	if d > 0 {
		h.pollInterval = d
	}
	return h
}

// HandleStream upgrades the request and streams the screen named by :id
func (h *Handler) HandleStream(c *gin.Context) {
	screenID := c.Param("id")
	if err := utils.ValidateScreenID(screenID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s, ok := h.screens.Get(screenID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "screen not found"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("WebSocket upgrade failed", zap.String("screen_id", screenID), zap.Error(err))
		return
	}
	defer conn.Close()

	h.metrics.IncWSConnections()
	defer h.metrics.DecWSConnections()

	st := &stream{conn: conn, handler: h}
	defer func() {
		if _, err := h.screens.Stop(screenID); err != nil {
			h.logger.Warn("Failed to stop screen after viewer left", zap.String("screen_id", screenID), zap.Error(err))
		}
	}()

	h.logger.Debug("Viewer attached", zap.String("screen_id", screenID))
	st.run(s)
	h.logger.Debug("Viewer detached", zap.String("screen_id", screenID))
}

// stream serializes writes to a single connection
type stream struct {
	conn    *websocket.Conn
	handler *Handler
	mu      sync.Mutex
	pending []byte // Trailing partial rune held for the next output frame
}

func (st *stream) run(s *screen.RunScreen) {
	info := s.Info()
	if err := st.send(types.StreamFrame{Type: FrameScreen, Screen: &info}); err != nil {
		return
	}

	left := make(chan struct{})
	go st.readLoop(left)

	ticker := time.NewTicker(st.handler.pollInterval)
	defer ticker.Stop()

	done := s.Done()
	for {
		select {
		case <-left:
			return
		case <-ticker.C:
			if err := st.flush(s, false); err != nil {
				return
			}
		case <-done:
			if err := st.flush(s, true); err != nil {
				return
			}
			info := s.Info()
			if err := st.send(types.StreamFrame{Type: FrameExit, Screen: &info}); err != nil {
				return
			}
			st.close()
			return
		}
	}
}

// readLoop consumes viewer messages until the connection fails
func (st *stream) readLoop(left chan<- struct{}) {
	defer close(left)
	for {
		_, data, err := st.conn.ReadMessage()
		if err != nil {
			return
		}

		var msg clientMessage
		if err := sonic.Unmarshal(data, &msg); err != nil {
			_ = st.send(types.StreamFrame{Type: FrameError, Data: "invalid message"})
			continue
		}

		switch msg.Type {
		case "ping":
			_ = st.send(types.StreamFrame{Type: FramePong})
		default:
			_ = st.send(types.StreamFrame{Type: FrameError, Data: "unknown message type"})
		}
	}
}

// flush forwards captured output. Unless final is set, an incomplete
// multibyte character at the end is kept back until its remaining bytes
// arrive.
func (st *stream) flush(s *screen.RunScreen, final bool) error {
	chunk := append(st.pending, s.Output()...)
	st.pending = nil
	if !final {
		cut := completePrefix(chunk)
		if cut < len(chunk) {
			st.pending = append([]byte(nil), chunk[cut:]...)
			chunk = chunk[:cut]
		}
	}
	if len(chunk) == 0 {
		return nil
	}
	return st.send(types.StreamFrame{
		Type:       FrameOutput,
		Data:       strings.ToValidUTF8(string(chunk), string(utf8.RuneError)),
		DataBase64: base64.StdEncoding.EncodeToString(chunk),
	})
}

// completePrefix returns the length of b without a trailing incomplete
// UTF-8 sequence
func completePrefix(b []byte) int {
	for i := len(b) - 1; i >= 0 && i >= len(b)-utf8.UTFMax; i-- {
		if !utf8.RuneStart(b[i]) {
			continue
		}
		if utf8.FullRune(b[i:]) {
			return len(b)
		}
		return i
	}
	return len(b)
}

func (st *stream) send(frame types.StreamFrame) error {
	frame.Timestamp = time.Now().Unix()
	data, err := sonic.Marshal(frame)
	if err != nil {
		return err
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	_ = st.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := st.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return err
	}
	st.handler.metrics.RecordWSMessage(frame.Type)
	return nil
}

func (st *stream) close() {
	st.mu.Lock()
	defer st.mu.Unlock()

	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "program exited")
	_ = st.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
}
