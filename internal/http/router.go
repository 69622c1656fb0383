package http

import (
	"net/http"
	"strings"
)

type RouterConfig struct {
	Rooms      *RoomHandler
	Prompts    *PromptHandler
	History    *HistoryHandler
	Events     *EventHandler
	Middleware []func(http.Handler) http.Handler
}

func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()

	if cfg.Events != nil {
		mux.HandleFunc("/events", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				methodNotAllowed(w, http.MethodPost)
				return
			}
			cfg.Events.Receive(w, r)
		})
	}

	mux.HandleFunc("/rooms/", func(w http.ResponseWriter, r *http.Request) {
		segments := splitPath(strings.TrimPrefix(r.URL.Path, "/rooms/"))
		if len(segments) == 0 || segments[0] == "" {
			http.NotFound(w, r)
			return
		}
		r = r.WithContext(ContextWithRoomID(r.Context(), segments[0]))
		rest := segments[1:]

		switch {
		case len(rest) == 0:
			if cfg.Rooms == nil {
				http.NotFound(w, r)
				return
			}
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			cfg.Rooms.Get(w, r)

		case len(rest) == 1 && rest[0] == "timezone":
			if cfg.Rooms == nil {
				http.NotFound(w, r)
				return
			}
			switch r.Method {
			case http.MethodGet:
				cfg.Rooms.Get(w, r)
			case http.MethodPut:
				cfg.Rooms.SetTimezone(w, r)
			default:
				methodNotAllowed(w, http.MethodGet, http.MethodPut)
			}

		case len(rest) == 1 && rest[0] == "history":
			if cfg.History == nil {
				http.NotFound(w, r)
				return
			}
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			cfg.History.Export(w, r)

		case rest[0] == "prompts":
			if cfg.Prompts == nil {
				http.NotFound(w, r)
				return
			}
			routePrompts(cfg.Prompts, w, r, rest[1:])

		default:
			http.NotFound(w, r)
		}
	})

	var handler http.Handler = mux
	if len(cfg.Middleware) > 0 {
		for i := len(cfg.Middleware) - 1; i >= 0; i-- {
			if cfg.Middleware[i] != nil {
				handler = cfg.Middleware[i](handler)
			}
		}
	}

	return handler
}

func routePrompts(prompts *PromptHandler, w http.ResponseWriter, r *http.Request, rest []string) {
	switch {
	case len(rest) == 0:
		if r.Method != http.MethodGet {
			methodNotAllowed(w, http.MethodGet)
			return
		}
		prompts.List(w, r)

	case len(rest) == 1:
		r = r.WithContext(ContextWithPromptName(r.Context(), rest[0]))
		switch r.Method {
		case http.MethodPut:
			prompts.Upsert(w, r)
		case http.MethodDelete:
			prompts.Delete(w, r)
		default:
			methodNotAllowed(w, http.MethodPut, http.MethodDelete)
		}

	case len(rest) == 2 && rest[1] == "schedule":
		r = r.WithContext(ContextWithPromptName(r.Context(), rest[0]))
		switch r.Method {
		case http.MethodPut:
			prompts.SetSchedule(w, r)
		case http.MethodDelete:
			prompts.ClearSchedule(w, r)
		default:
			methodNotAllowed(w, http.MethodPut, http.MethodDelete)
		}

	default:
		http.NotFound(w, r)
	}
}

// splitPath breaks a path remainder into its non-empty leading segments. A
// trailing slash is tolerated; empty interior segments are not.
func splitPath(path string) []string {
	path = strings.TrimSuffix(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}

func methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	if len(allowed) > 0 {
		w.Header().Set("Allow", strings.Join(allowed, ", "))
	}
	http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
}
