package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/car-marketplace-client/internal/domain"
	"github.com/spec-kit/car-marketplace-client/internal/events"
	"github.com/spec-kit/car-marketplace-client/internal/guard"
	"github.com/spec-kit/car-marketplace-client/internal/service"
)

// MyFavoritesPath is the buyer's favorites view.
const MyFavoritesPath = "/my-favorites"

// FavoritesHandler serves the buyer's favorites.
type FavoritesHandler struct {
	views     *Views
	favorites *service.FavoriteService
	mine      *mountedView[[]domain.Favorite]
}

// NewFavoritesHandler mounts the favorites view; it reloads after every
// favorite-changed event.
func NewFavoritesHandler(views *Views, favorites *service.FavoriteService, src guard.Source, dispatcher events.Dispatcher) *FavoritesHandler {
	h := &FavoritesHandler{views: views, favorites: favorites}
	h.mine = mountView(src, dispatcher, guard.AnyOf(domain.RoleBuyer), MyFavoritesPath,
		func(ctx context.Context) ([]domain.Favorite, error) { return favorites.Mine(ctx) },
		events.KindFavoriteChanged)
	return h
}

func (h *FavoritesHandler) MyFavorites(c *fiber.Ctx) error {
	favorites, err := h.mine.Get(c.UserContext())
	if err != nil {
		return err
	}
	return h.views.Render(c, fiber.StatusOK, "my_favorites", fiber.Map{
		"title":     "My favorites",
		"favorites": favorites,
	})
}

// Add marks the listing as a favorite.
func (h *FavoritesHandler) Add(c *fiber.Ctx) error {
	if err := h.favorites.Add(c.UserContext(), c.Params("id")); err != nil {
		return mutationFailed(c, err, MyFavoritesPath)
	}
	setFlash(c, "success", "Added to favorites.")
	return redirectBack(c, MyFavoritesPath)
}

// Remove drops the listing from favorites.
func (h *FavoritesHandler) Remove(c *fiber.Ctx) error {
	if err := h.favorites.Remove(c.UserContext(), c.Params("id")); err != nil {
		return mutationFailed(c, err, MyFavoritesPath)
	}
	setFlash(c, "success", "Removed from favorites.")
	return redirectBack(c, MyFavoritesPath)
}

// Close unmounts the favorites view.
func (h *FavoritesHandler) Close() {
	h.mine.Close()
}
