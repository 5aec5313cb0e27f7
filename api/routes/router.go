package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/temankemah/temankemah-backend/api/controllers"
	"github.com/temankemah/temankemah-backend/api/middleware"
	"github.com/temankemah/temankemah-backend/internal/activities"
	"github.com/temankemah/temankemah-backend/internal/auth"
	"github.com/temankemah/temankemah-backend/internal/campareas"
	"github.com/temankemah/temankemah-backend/internal/categories"
	"github.com/temankemah/temankemah-backend/internal/events"
	"github.com/temankemah/temankemah-backend/internal/gear"
	"github.com/temankemah/temankemah-backend/internal/interactions"
	"github.com/temankemah/temankemah-backend/internal/regions"
	"github.com/temankemah/temankemah-backend/internal/sitemap"
	"github.com/temankemah/temankemah-backend/internal/users"
	"github.com/temankemah/temankemah-backend/pkg/cdn"
	"github.com/temankemah/temankemah-backend/pkg/config"
	"github.com/temankemah/temankemah-backend/pkg/enums"
	"github.com/temankemah/temankemah-backend/pkg/logger"
	"github.com/temankemah/temankemah-backend/pkg/redis"
)

// Services bundles everything the router wires into handlers.
type Services struct {
	Auth         auth.Service
	Users        users.Service
	Activities   activities.Service
	CampAreas    campareas.Service
	Events       events.Service
	Regions      regions.Service
	Gear         gear.Service
	Categories   categories.Service
	Interactions interactions.Service
	Sitemap      *sitemap.Service
}

type uploadSigner interface {
	SignUpload(at time.Time) cdn.UploadSignature
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	redisClient *redis.Client,
	readiness map[string]controllers.Pinger,
	signer uploadSigner,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, readiness))
	})

	r.Get("/sitemap.xml", controllers.Sitemap(svcs.Sitemap, logg))

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).Post("/login", controllers.AuthLogin(svcs.Auth, logg))
		r.With(middleware.AuthRateLimit(registerPolicy, redisClient, logg)).Post("/register", controllers.AuthRegister(svcs.Auth, logg))
	})

	r.Route("/api/admin/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).Post("/login", controllers.AdminAuthLogin(svcs.Auth, logg))
	})

	maxUploadMB := cfg.Media.MaxUploadMB

	// Reads accept either a bearer token or the shared Basic credentials.
	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.ReadGate(cfg.JWT, cfg.ReadGate, logg))

			r.Get("/users/{id}", controllers.UsersGet(svcs.Users, logg))
			r.Get("/categories", controllers.CategoriesList(svcs.Categories, logg))

			r.Get("/activities", controllers.ActivitiesList(svcs.Activities, logg))
			r.Get("/activities/{id}", controllers.ActivitiesGet(svcs.Activities, logg))

			r.Get("/camp-areas", controllers.CampAreasList(svcs.CampAreas, logg))
			r.Get("/camp-areas/{id}", controllers.CampAreasGet(svcs.CampAreas, logg))

			r.Get("/events", controllers.EventsList(svcs.Events, logg))
			r.Get("/events/{id}", controllers.EventsGet(svcs.Events, logg))
			r.Get("/events/{id}/participants", controllers.EventsParticipants(svcs.Events, logg))

			r.Get("/regions", controllers.RegionsList(svcs.Regions, logg))
			r.Get("/regions/{id}", controllers.RegionsGet(svcs.Regions, logg))
			r.Get("/regions/{id}/members", controllers.RegionsMembers(svcs.Regions, logg))

			r.Get("/gear-lists/{id}", controllers.GearListsDetail(svcs.Gear, logg))

			r.Get("/interactions/counts", controllers.InteractionCounts(svcs.Interactions, logg))
			r.Get("/comments", controllers.CommentsList(svcs.Interactions, logg))
		})

		// Writes require a bearer token.
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))

			r.Get("/users/me", controllers.UsersMe(svcs.Users, logg))
			r.Patch("/users/me", controllers.UsersUpdateProfile(svcs.Users, logg))

			r.Post("/media/sign", controllers.MediaSign(signer, logg))

			r.Post("/activities", controllers.ActivitiesCreate(svcs.Activities, logg, maxUploadMB))
			r.Patch("/activities/{id}", controllers.ActivitiesUpdate(svcs.Activities, logg, maxUploadMB))
			r.Delete("/activities/{id}", controllers.ActivitiesDelete(svcs.Activities, logg))

			r.Post("/camp-areas", controllers.CampAreasCreate(svcs.CampAreas, logg, maxUploadMB))
			r.Patch("/camp-areas/{id}", controllers.CampAreasUpdate(svcs.CampAreas, logg, maxUploadMB))
			r.Delete("/camp-areas/{id}", controllers.CampAreasDelete(svcs.CampAreas, logg))

			r.Post("/events", controllers.EventsCreate(svcs.Events, logg, maxUploadMB))
			r.Patch("/events/{id}", controllers.EventsUpdate(svcs.Events, logg, maxUploadMB))
			r.Delete("/events/{id}", controllers.EventsDelete(svcs.Events, logg))
			r.Post("/events/{id}/join", controllers.EventsJoin(svcs.Events, logg))
			r.Delete("/events/{id}/join", controllers.EventsLeave(svcs.Events, logg))

			r.Post("/regions", controllers.RegionsCreate(svcs.Regions, logg, maxUploadMB))
			r.Patch("/regions/{id}", controllers.RegionsUpdate(svcs.Regions, logg, maxUploadMB))
			r.Post("/regions/{id}/join", controllers.RegionsJoin(svcs.Regions, logg))
			r.Delete("/regions/{id}/join", controllers.RegionsLeave(svcs.Regions, logg))
			r.Patch("/regions/{id}/members/{memberId}", controllers.RegionsSetMemberRole(svcs.Regions, logg))

			r.Get("/gear-lists", controllers.GearListsIndex(svcs.Gear, logg))
			r.Post("/gear-lists", controllers.GearListsCreate(svcs.Gear, logg))
			r.Patch("/gear-lists/{id}", controllers.GearListsUpdate(svcs.Gear, logg))
			r.Delete("/gear-lists/{id}", controllers.GearListsDelete(svcs.Gear, logg))
			r.Post("/gear-lists/{id}/categories", controllers.GearCategoriesCreate(svcs.Gear, logg))
			r.Post("/gear-lists/{id}/template", controllers.GearListsApplyTemplate(svcs.Gear, logg))
			r.Patch("/gear-categories/{categoryId}", controllers.GearCategoriesUpdate(svcs.Gear, logg))
			r.Delete("/gear-categories/{categoryId}", controllers.GearCategoriesDelete(svcs.Gear, logg))
			r.Post("/gear-categories/{categoryId}/items", controllers.GearItemsCreate(svcs.Gear, logg))
			r.Put("/gear-categories/{categoryId}/reorder", controllers.GearItemsReorder(svcs.Gear, logg))
			r.Patch("/gear-items/{itemId}", controllers.GearItemsUpdate(svcs.Gear, logg))
			r.Delete("/gear-items/{itemId}", controllers.GearItemsDelete(svcs.Gear, logg))

			r.Post("/likes/toggle", controllers.LikesToggle(svcs.Interactions, logg))
			r.Post("/comments", controllers.CommentsCreate(svcs.Interactions, logg))
			r.Delete("/comments/{id}", controllers.CommentsDelete(svcs.Interactions, logg))
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.RequireRole(enums.UserRoleAdmin.String(), logg))

		r.Get("/users", controllers.AdminListUsers(svcs.Users, logg))
		r.Delete("/users/{id}", controllers.AdminDeleteUser(svcs.Users, logg))

		r.Post("/categories", controllers.AdminCategoriesCreate(svcs.Categories, logg))
		r.Patch("/categories/{id}", controllers.AdminCategoriesUpdate(svcs.Categories, logg))
		r.Delete("/categories/{id}", controllers.AdminCategoriesDelete(svcs.Categories, logg))

		r.Get("/regions/pending", controllers.AdminRegionsPending(svcs.Regions, logg))
		r.Post("/regions/{id}/approve", controllers.AdminRegionsApprove(svcs.Regions, logg))
		r.Post("/regions/{id}/reject", controllers.AdminRegionsReject(svcs.Regions, logg))

		r.Delete("/activities/{id}", controllers.ActivitiesDelete(svcs.Activities, logg))
		r.Delete("/camp-areas/{id}", controllers.CampAreasDelete(svcs.CampAreas, logg))
		r.Delete("/events/{id}", controllers.EventsDelete(svcs.Events, logg))
		r.Delete("/comments/{id}", controllers.CommentsDelete(svcs.Interactions, logg))
	})

	return r
}
