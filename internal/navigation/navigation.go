package navigation

import (
	"fmt"
	"path"
	"strings"
)

// Capability switches an optional menu behaviour on
type Capability string

const (
	CapabilityResponsiveCollapse   Capability = "responsive-collapse"
	CapabilityActiveRouteHighlight Capability = "active-route-highlight"
)

const (
	LoginPath = "/login"
	HomePath  = "/"
)

// Route is one page of the front end
type Route struct {
	Path   string
	Label  string
	Icon   string
	Public bool
}

// Routes is the page table. Public routes are reachable without a session and stay out of the menu.
var Routes = []Route{
	{Path: HomePath, Label: "Resumen", Icon: "home"},
	{Path: "/clientes", Label: "Clientes", Icon: "users"},
	{Path: "/proyectos", Label: "Proyectos", Icon: "briefcase"},
	{Path: "/tareas", Label: "Tareas", Icon: "check-square"},
	{Path: "/documentos", Label: "Documentos", Icon: "file-text"},
	{Path: "/calendario", Label: "Calendario", Icon: "calendar"},
	{Path: LoginPath, Label: "Iniciar sesión", Public: true},
	{Path: "/signup", Label: "Crear cuenta", Public: true},
}

// Item is a menu entry
type Item struct {
	Path   string `json:"path"`
	Label  string `json:"label"`
	Icon   string `json:"icon"`
	Active bool   `json:"active"`
}

// Menu is what the sidebar renders
type Menu struct {
	Title       string `json:"title"`
	Collapsible bool   `json:"collapsible"`
	Collapsed   bool   `json:"collapsed"`
	Items       []Item `json:"items"`
}

// Shell is the single navigation component. Its behaviour depends on the enabled capabilities.
type Shell struct {
	title        string
	capabilities map[Capability]bool
}

// New builds a shell with the given capabilities; unknown names are rejected
func New(title string, capabilities []string) (*Shell, error) {
	caps := make(map[Capability]bool, len(capabilities))
	for _, c := range capabilities {
		switch Capability(c) {
		case CapabilityResponsiveCollapse, CapabilityActiveRouteHighlight:
			caps[Capability(c)] = true
		default:
			return nil, fmt.Errorf("unknown navigation capability %q", c)
		}
	}
	return &Shell{title: title, capabilities: caps}, nil
}

func (s *Shell) Has(c Capability) bool {
	return s.capabilities[c]
}

// Capabilities lists the enabled capabilities in a stable order
func (s *Shell) Capabilities() []Capability {
	out := make([]Capability, 0, len(s.capabilities))
	for _, c := range []Capability{CapabilityResponsiveCollapse, CapabilityActiveRouteHighlight} {
		if s.capabilities[c] {
			out = append(out, c)
		}
	}
	return out
}

// Clean normalises a request path so "/clientes/" and "/clientes" match
func Clean(p string) string {
	if p == "" {
		return HomePath
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return path.Clean(p)
}

// Lookup finds the route for a page path
func Lookup(p string) (Route, bool) {
	p = Clean(p)
	for _, r := range Routes {
		if r.Path == p {
			return r, true
		}
	}
	return Route{}, false
}

// Menu returns the private routes with the current page marked active.
// collapsed is ignored unless responsive collapse is enabled.
func (s *Shell) Menu(activePath string, collapsed bool) Menu {
	active := Clean(activePath)
	highlight := s.Has(CapabilityActiveRouteHighlight)

	menu := Menu{
		Title:       s.title,
		Collapsible: s.Has(CapabilityResponsiveCollapse),
		Items:       make([]Item, 0, len(Routes)),
	}
	menu.Collapsed = menu.Collapsible && collapsed

	for _, r := range Routes {
		if r.Public {
			continue
		}
		menu.Items = append(menu.Items, Item{
			Path:   r.Path,
			Label:  r.Label,
			Icon:   r.Icon,
			Active: highlight && r.Path == active,
		})
	}
	return menu
}

// Gate decides where a page request ends up. It returns the path to redirect to,
// or "" when the page can be served as is. Unknown pages go home; private pages
// need a session.
func Gate(p string, authenticated bool) string {
	route, ok := Lookup(p)
	if !ok {
		if authenticated {
			return HomePath
		}
		return LoginPath
	}
	if route.Public || authenticated {
		return ""
	}
	return LoginPath
}
