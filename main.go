package main

import (
	"context"
	"strings"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"github.com/charmbracelet/log"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"google.golang.org/api/option"

	"github.com/eclipse-gg/pov-archive/repos/docstore"
	"github.com/eclipse-gg/pov-archive/repos/mirror"
	"github.com/eclipse-gg/pov-archive/repos/resend"

	"github.com/eclipse-gg/pov-archive/pkg/auth"
	"github.com/eclipse-gg/pov-archive/pkg/config"
	"github.com/eclipse-gg/pov-archive/pkg/ident"

	"github.com/eclipse-gg/pov-archive/services/comments"
	"github.com/eclipse-gg/pov-archive/services/matches"
	"github.com/eclipse-gg/pov-archive/services/migrate"
	"github.com/eclipse-gg/pov-archive/services/povs"
	"github.com/eclipse-gg/pov-archive/services/slots"
	"github.com/eclipse-gg/pov-archive/services/stats"
)

func main() {
	ctx := context.Background()

	cfg := config.Load()

	mirrorStore, err := mirror.Open(cfg.MirrorPath)
	if err != nil {
		log.Fatalf("Failed to open mirror store: %v", err)
	}
	defer mirrorStore.Close()

	// Without Firestore credentials every repository runs in
	// mirror-only mode. That decision is made once, here.
	var firestoreClient *firestore.Client
	var firebaseApp *firebase.App
	if cfg.StoreAvailable() {
		credentialsOption := option.WithCredentialsJSON([]byte(cfg.FirebaseCredentials))

		firestoreClient, err = firestore.NewClient(ctx, cfg.FirebaseProjectID, credentialsOption)
		if err != nil {
			log.Fatalf("Failed to create Firestore client: %v", err)
		}
		defer firestoreClient.Close()

		firebaseApp, err = firebase.NewApp(ctx, nil, credentialsOption)
		if err != nil {
			log.Fatalf("Failed to initialize Firebase app: %v", err)
		}
	} else {
		log.Warn("Document store not configured, running in mirror-only mode")
	}

	store := docstore.New(firestoreClient)
	ids := ident.UUIDv7{}
	mailService := resend.NewService(cfg.ResendKey, cfg.ReportEmail)

	slotService := slots.NewSlotService(store, mirrorStore, ids)
	matchesService := matches.NewMatchesService(store, mirrorStore, ids)
	povService := povs.NewPOVService(store, mirrorStore, ids)
	commentsService := comments.NewCommentsService(store, mirrorStore, ids)
	statsService := stats.NewStatsService(povService)
	migrateService := migrate.NewMigrateService(store, mirrorStore, mailService, ".")

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = strings.Split(cfg.CORSHosts, ",")
	corsConfig.AllowCredentials = true
	corsConfig.AllowMethods = []string{"GET", "POST", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Access-Control-Allow-Origin"}

	router := gin.Default()
	router.Use(cors.New(corsConfig))

	slotsRouter := router.Group("/slots/v1")
	matchesRouter := router.Group("/slots/v1/:slot_id/matches")
	povsRouter := router.Group("/slots/v1/:slot_id/matches/:match_id/povs")
	commentsRouter := router.Group("/slots/v1/:slot_id/matches/:match_id/povs/:pov_id/comments")
	archiveRouter := router.Group("/povs/v1")
	statsRouter := router.Group("/stats/v1")

	migrateRouter := router.Group("/migrate/v1")
	migrateRouter.Use(auth.AdminMiddleware(firebaseApp, cfg.AdminPassword))

	slots.NewHTTPHandler(slots.HTTPOptions{
		Service: slotService,
		Router:  slotsRouter,
	})

	matches.NewHTTPHandler(matches.HTTPOptions{
		Service: matchesService,
		Router:  matchesRouter,
	})

	povs.NewHTTPHandler(povs.HTTPOptions{
		Service:       povService,
		MatchRouter:   povsRouter,
		ArchiveRouter: archiveRouter,
	})

	comments.NewHTTPHandler(comments.HTTPOptions{
		Service: commentsService,
		Router:  commentsRouter,
	})

	stats.NewHTTPHandler(stats.HTTPOptions{
		Service: statsService,
		Router:  statsRouter,
	})

	migrate.NewHTTPHandler(migrate.HTTPOptions{
		Service: migrateService,
		Router:  migrateRouter,
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	log.Fatal(router.Run(":" + cfg.Port))
}
