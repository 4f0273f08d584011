package http

import (
	"encoding/base64"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/demolauncher/internal/domain/screen"
	"github.com/GriffinCanCode/demolauncher/internal/infrastructure/logging"
	"github.com/GriffinCanCode/demolauncher/internal/shared/utils"
)

// Version is reported by the root endpoint
const Version = "0.1.0"

// Handlers contains all HTTP handlers
type Handlers struct {
	programs    *screen.ListScreen
	screens     *screen.Manager
	programsDir string
	logger      *logging.Logger
}

// NewHandlers creates a new handler set
func NewHandlers(programs *screen.ListScreen, screens *screen.Manager, programsDir string, logger *logging.Logger) *Handlers {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Handlers{
		programs:    programs,
		screens:     screens,
		programsDir: programsDir,
		logger:      logger,
	}
}

// Root handles the service banner
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "online",
		"service": "Demo Launcher",
		"version": Version,
	})
}

// Health handles detailed health check
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":       "healthy",
		"programs_dir": h.programsDir,
		"programs":     h.programs.List().Len(),
		"screens":      h.screens.Stats(),
	})
}

// ListPrograms rescans the programs directory and returns the list rows
func (h *Handlers) ListPrograms(c *gin.Context) {
	h.programs.Load()
	rows := h.programs.Rows()

	c.JSON(http.StatusOK, gin.H{
		"dir":      h.programsDir,
		"programs": rows,
		"count":    len(rows),
	})
}

// LaunchProgram selects a row of the last listing and opens a run screen for it.
// A failed launch still opens a screen; it reports running=false.
func (h *Handlers) LaunchProgram(c *gin.Context) {
	index, err := utils.ParseIndex(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	extras, err := h.programs.Select(index)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s := h.screens.Open(extras)
	info := s.Info()

	h.logger.Info("Program launched from list",
		zap.Int("index", index),
		zap.String("screen_id", info.ID),
		zap.String("program", info.Program),
		zap.Bool("running", info.Running),
	)

	c.JSON(http.StatusCreated, info)
}

// ListScreens lists all retained run screens
func (h *Handlers) ListScreens(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"screens": h.screens.List(),
		"stats":   h.screens.Stats(),
	})
}

// GetScreen returns one run screen
func (h *Handlers) GetScreen(c *gin.Context) {
	s, ok := h.lookup(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, s.Info())
}

// ScreenOutput drains the output captured since the previous read
func (h *Handlers) ScreenOutput(c *gin.Context) {
	s, ok := h.lookup(c)
	if !ok {
		return
	}

	output := s.Output()
	c.JSON(http.StatusOK, gin.H{
		"screen_id":     s.ID().String(),
		"output":        string(output),
		"output_base64": base64.StdEncoding.EncodeToString(output),
		"bytes":         len(output),
	})
}

// StopScreen stops a run screen, killing its program
func (h *Handlers) StopScreen(c *gin.Context) {
	screenID := c.Param("id")
	if err := utils.ValidateScreenID(screenID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	info, err := h.screens.Stop(screenID)
	if errors.Is(err, screen.ErrScreenNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, info)
}

// lookup resolves the :id parameter, writing the error response on failure
func (h *Handlers) lookup(c *gin.Context) (*screen.RunScreen, bool) {
	screenID := c.Param("id")
	if err := utils.ValidateScreenID(screenID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}

	s, ok := h.screens.Get(screenID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "screen not found"})
		return nil, false
	}
	return s, true
}
