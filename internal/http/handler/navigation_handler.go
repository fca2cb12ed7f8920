package handler

import (
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/julesapp/crm-api/internal/auth"
	"github.com/julesapp/crm-api/internal/navigation"
	"go.uber.org/zap"
)

// NavigationResponse is the menu plus the capabilities it was built with
type NavigationResponse struct {
	navigation.Menu
	Capabilities []navigation.Capability `json:"capabilities"`
}

type NavigationHandler struct {
	shell  *navigation.Shell
	logger *zap.Logger
}

func NewNavigationHandler(shell *navigation.Shell, logger *zap.Logger) *NavigationHandler {
	return &NavigationHandler{shell: shell, logger: logger}
}

// Menu godoc
// @Summary Navigation menu
// @Description The sidebar entries with the current page highlighted and the collapse state applied.
// @Tags Navigation
// @Produce json
// @Param path query string false "Current page path" default(/)
// @Param collapsed query bool false "Whether the sidebar is collapsed"
// @Success 200 {object} handler.NavigationResponse
// @Security BearerAuth
// @Router /navigation [get]
func (h *NavigationHandler) Menu(w http.ResponseWriter, r *http.Request) {
	collapsed, _ := strconv.ParseBool(r.URL.Query().Get("collapsed"))
	respondJSON(w, http.StatusOK, NavigationResponse{
		Menu:         h.shell.Menu(r.URL.Query().Get("path"), collapsed),
		Capabilities: h.shell.Capabilities(),
	})
}

// SPAHandler serves the front end. Page routes go through the navigation gate;
// anything that exists as a file under dir is served as is.
type SPAHandler struct {
	dir    string
	files  http.Handler
	logger *zap.Logger
}

func NewSPAHandler(dir string, logger *zap.Logger) *SPAHandler {
	return &SPAHandler{
		dir:    dir,
		files:  http.FileServer(http.Dir(dir)),
		logger: logger,
	}
}

func (h *SPAHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	p := navigation.Clean(r.URL.Path)

	if p != navigation.HomePath && h.isFile(p) {
		h.files.ServeHTTP(w, r)
		return
	}

	_, authenticated := auth.OwnerID(r.Context())
	if target := navigation.Gate(p, authenticated); target != "" {
		h.logger.Debug("page redirected",
			zap.String("path", p),
			zap.String("target", target),
			zap.Bool("authenticated", authenticated),
		)
		http.Redirect(w, r, target, http.StatusFound)
		return
	}

	http.ServeFile(w, r, filepath.Join(h.dir, "index.html"))
}

func (h *SPAHandler) isFile(p string) bool {
	if strings.Contains(p, "..") {
		return false
	}
	info, err := os.Stat(filepath.Join(h.dir, filepath.FromSlash(p)))
	return err == nil && !info.IsDir()
}
