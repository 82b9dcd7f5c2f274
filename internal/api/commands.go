package api

import (
	"errors"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/reedfamily/a2sbot/internal/game"
	"github.com/reedfamily/a2sbot/internal/plugin"
)

// imagesRoute is where rendered images are served; image results carry a
// URL under it alongside the filesystem path.
const imagesRoute = "/api/v1/images/"

type CommandHandler struct {
	plugin *plugin.Plugin
}

func NewCommandHandler(p *plugin.Plugin) *CommandHandler {
	return &CommandHandler{plugin: p}
}

type commandInfo struct {
	Name        string `json:"name"`
	Usage       string `json:"usage"`
	Description string `json:"description"`
}

// resultView is a plugin.Result as sent to bridge clients.
type resultView struct {
	plugin.Result
	URL string `json:"url,omitempty"`
}

func viewOf(r plugin.Result) resultView {
	v := resultView{Result: r}
	if r.Kind == plugin.Image && r.Path != "" {
		v.URL = imagesRoute + filepath.Base(r.Path)
	}
	return v
}

func (h *CommandHandler) List(w http.ResponseWriter, r *http.Request) {
	cmds := h.plugin.Commands()
	result := make([]commandInfo, 0, len(cmds))
	for _, c := range cmds {
		result = append(result, commandInfo{Name: c.Name, Usage: c.Usage, Description: c.Description})
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *CommandHandler) Run(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Command string `json:"command"`
		Args    string `json:"args"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	name := strings.TrimPrefix(strings.TrimSpace(req.Command), "/")
	if name == "" {
		writeError(w, http.StatusBadRequest, "command required")
		return
	}

	var out plugin.Collector
	err := h.plugin.Dispatch(r.Context(), name, req.Args, &out)
	if errors.Is(err, plugin.ErrUnknownCommand) {
		writeError(w, http.StatusNotFound, "unknown command: "+name)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	results := make([]resultView, 0, len(out.Results))
	for _, res := range out.Results {
		results = append(results, viewOf(res))
	}
	writeJSON(w, http.StatusOK, results)
}

type ToolHandler struct {
	plugin *plugin.Plugin
}

func NewToolHandler(p *plugin.Plugin) *ToolHandler {
	return &ToolHandler{plugin: p}
}

func (h *ToolHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.plugin.Tools())
}

func (h *ToolHandler) Call(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	args := map[string]any{}
	if r.ContentLength != 0 {
		if err := decodeJSON(r, &args); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	result, err := h.plugin.CallTool(r.Context(), name, args)
	if errors.Is(err, plugin.ErrUnknownTool) {
		writeError(w, http.StatusNotFound, "unknown tool: "+name)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"result": result})
}

type gameInfo struct {
	AppID   string   `json:"appid"`
	Name    string   `json:"name"`
	Aliases []string `json:"aliases"`
}

func gameInfoOf(g game.GameAdapter) gameInfo {
	return gameInfo{AppID: g.AppID(), Name: g.Name(), Aliases: g.Aliases()}
}

// Games lists the app id aliases accepted by find and findt.
func Games(w http.ResponseWriter, r *http.Request) {
	all := game.All()
	result := make([]gameInfo, 0, len(all))
	for _, g := range all {
		result = append(result, gameInfoOf(g))
	}
	writeJSON(w, http.StatusOK, result)
}

// Game looks up one registered game by app id or alias.
func Game(w http.ResponseWriter, r *http.Request) {
	g := game.Get(game.Resolve(chi.URLParam(r, "appid")))
	if g == nil {
		writeError(w, http.StatusNotFound, "game not found")
		return
	}
	writeJSON(w, http.StatusOK, gameInfoOf(g))
}
