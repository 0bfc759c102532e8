package httpx

import (
	"net/http"

	"github.com/target/ims-ui/internal/domain/model"
	"golang.org/x/sync/errgroup"
)

// profileRecent is how many of the user's transactions and requests the profile shows.
const profileRecent = 5

// ProfilePage shows the signed-in account with its latest activity. The
// account is read first because both activity lists are keyed by its ID.
func (h *UIHandlers) ProfilePage(w http.ResponseWriter, r *http.Request) {
	user, err := h.API.GetCurrentUser(r.Context())
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	var (
		txs  []model.Transaction
		reqs []model.Request
	)
	g, ctx := errgroup.WithContext(r.Context())
	if isAdmin(r) {
		g.Go(func() error {
			resp, err := h.API.GetUserTransactions(ctx, user.ID)
			if err != nil {
				return err
			}
			if resp.User != nil {
				txs = resp.User.Transactions
			}
			return nil
		})
	}
	g.Go(func() error {
		resp, err := h.API.GetUserRequests(ctx, user.ID)
		if err != nil {
			return err
		}
		if resp.User != nil {
			reqs = resp.User.Requests
		}
		return nil
	})

	b := NewTemplateData(r, PageMeta{Title: "Profile", PageTitle: "Profile", CurrentPage: PageProfile}).
		With("User", user)
	if err := g.Wait(); err != nil {
		h.logger().WarnContext(r.Context(), "profile activity unavailable", "error", err)
		b.WithError("Recent activity could not be loaded.")
	}
	b.With("Transactions", txs[:min(profileRecent, len(txs))]).
		With("TransactionCount", len(txs)).
		With("Requests", reqs[:min(profileRecent, len(reqs))]).
		With("RequestCount", len(reqs))
	h.render(w, r, http.StatusOK, b.Build())
}
