// Package http provides http transport for the users API
package http

import (
	stdhttp "net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"devpulse/internal/modkit/httpkit"
	"devpulse/internal/platform/net/http/bind"
	"devpulse/internal/services/api/users/domain"
	svc "devpulse/internal/services/api/users/service"
	syncdom "devpulse/internal/services/sync/domain"
)

// Register mounts users endpoints on the given router
func Register(r httpkit.Router, s svc.Service, syncer syncdom.SyncerPort) {
	h := &handlers{svc: s, syncer: syncer}

	// derived metric set
	httpkit.Get(r, "/{login}/summary", h.summary)

	// day rollups, newest first
	httpkit.Get(r, "/{login}/daily", h.daily)

	// repository snapshots
	httpkit.Get(r, "/{login}/repos", h.repos)

	// manual sync trigger
	httpkit.Post(r, "/{login}/sync", h.sync)
}

type handlers struct {
	svc    svc.Service
	syncer syncdom.SyncerPort
}

// login pulls and validates the path login before it reaches a query
func login(r *stdhttp.Request) (string, error) {
	l := chi.URLParam(r, "login")
	if err := bind.Var(l, "gh_login"); err != nil {
		return "", err
	}
	return l, nil
}

// swagger:route GET /users/{login}/summary Users usersSummary
// @Summary Derived metrics for a user
// @Tags Users
// @Produce json
// @Param login path string true "GitHub login"
// @Success 200 {object} domain.SummaryResponse "ok"
// @Failure 404 "unknown user"
// @Router /users/{login}/summary [get]
func (h *handlers) summary(r *stdhttp.Request) (any, error) {
	l, err := login(r)
	if err != nil {
		return nil, err
	}
	return h.svc.Summary(r.Context(), l)
}

// swagger:route GET /users/{login}/daily Users usersDaily
// @Summary Day rollups for a user, newest first
// @Tags Users
// @Produce json
// @Param login path string true "GitHub login"
// @Param days query int false "How many days, 1 to 365, default 30"
// @Success 200 {array} domain.DailyRow "ok"
// @Router /users/{login}/daily [get]
func (h *handlers) daily(r *stdhttp.Request) (any, error) {
	l, err := login(r)
	if err != nil {
		return nil, err
	}
	days, _ := strconv.Atoi(r.URL.Query().Get("days"))
	return h.svc.Daily(r.Context(), l, days)
}

// swagger:route GET /users/{login}/repos Users usersRepos
// @Summary Repository snapshots for a user
// @Tags Users
// @Produce json
// @Param login path string true "GitHub login"
// @Success 200 {array} domain.RepoRow "ok"
// @Router /users/{login}/repos [get]
func (h *handlers) repos(r *stdhttp.Request) (any, error) {
	l, err := login(r)
	if err != nil {
		return nil, err
	}
	return h.svc.Repos(r.Context(), l)
}

// swagger:route POST /users/{login}/sync Users usersSync
// @Summary Trigger a synchronization pass
// @Tags Users
// @Accept json
// @Produce json
// @Param login path string true "GitHub login"
// @Param payload body domain.SyncInput false "Optional credential"
// @Success 200 {object} syncdom.Result "ok"
// @Failure 429 "cooldown active"
// @Router /users/{login}/sync [post]
func (h *handlers) sync(r *stdhttp.Request) (any, error) {
	l, err := login(r)
	if err != nil {
		return nil, err
	}
	in, err := bind.ParseJSON[domain.SyncInput](r, bind.JSONOptions{
		MaxBytes:        1 << 20,
		DisallowUnknown: true,
		AllowEmptyBody:  true,
	})
	if err != nil {
		return nil, err
	}
	return h.syncer.Sync(r.Context(), syncdom.Request{
		Login: l,
		Token: in.Token,
	})
}
