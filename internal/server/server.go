// Package server provides the HTTP server setup and routing configuration.
package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/youkebox/youkebox/internal/api"
	"github.com/youkebox/youkebox/internal/config"
	"github.com/youkebox/youkebox/internal/db"
	"github.com/youkebox/youkebox/internal/logger"
	"github.com/youkebox/youkebox/internal/middleware"
	"github.com/youkebox/youkebox/internal/player"
	"github.com/youkebox/youkebox/internal/playlist"
	"github.com/youkebox/youkebox/internal/room"
	"github.com/youkebox/youkebox/internal/youtube"
)

// Server represents the HTTP server
type Server struct {
	config          *config.Config
	db              *db.DB
	repos           *db.Repositories
	supervisor      *player.Supervisor
	roomService     *room.Service
	playlistService *playlist.Service
	artwork         *room.ArtworkStore
	youtubeClient   *youtube.Client
	router          *gin.Engine
	server          *http.Server
}

// New creates a new server instance
func New(cfg *config.Config, database *db.DB) (*Server, error) {
	repos := db.NewRepositories(database)

	artwork, err := room.NewArtworkStore(cfg.Artwork.Dir)
	if err != nil {
		return nil, fmt.Errorf("failed to create artwork store: %w", err)
	}

	supervisor := player.NewSupervisor(repos.Videos, repos.Rooms, &cfg.Player)
	roomService := room.NewService(repos, supervisor, artwork)
	youtubeClient := youtube.NewClient(&cfg.YouTube)
	playlistService := playlist.NewService(repos, youtubeClient, supervisor)

	return &Server{
		config:          cfg,
		db:              database,
		repos:           repos,
		supervisor:      supervisor,
		roomService:     roomService,
		playlistService: playlistService,
		artwork:         artwork,
		youtubeClient:   youtubeClient,
	}, nil
}

// setupRouter initializes the Gin router with middleware and routes
func (s *Server) setupRouter() {
	if s.config.Logging.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	s.router = gin.New()

	s.router.Use(middleware.RequestLogger())
	s.router.Use(gin.Recovery())
	s.router.Use(cors.Default())

	apiGroup := s.router.Group("/api/v1")

	api.SetupHealthRoutes(apiGroup, s.db)
	api.SetupRoomRoutes(apiGroup, s.roomService, s.artwork)
	api.SetupPlaylistRoutes(apiGroup, s.playlistService, s.supervisor)
	api.SetupYouTubeRoutes(apiGroup, s.youtubeClient)
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.setupRouter()

	// Resume playback for every room with pending videos
	if err := s.supervisor.Initialize(context.Background()); err != nil {
		return fmt.Errorf("failed to initialize playback supervisor: %w", err)
	}

	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)

	s.server = &http.Server{
		Addr:           addr,
		Handler:        s.router,
		ReadTimeout:    s.config.Server.ReadTimeout,
		WriteTimeout:   s.config.Server.WriteTimeout,
		MaxHeaderBytes: 1 << 20, // 1 MB
	}

	logger.Log.Info().
		Str("host", s.config.Server.Host).
		Int("port", s.config.Server.Port).
		Msg("Starting HTTP server")

	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	logger.Log.Info().Msg("Shutting down server gracefully")

	if s.supervisor != nil {
		s.supervisor.Shutdown()
	}

	if s.server != nil {
		if err := s.server.Shutdown(ctx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
	}

	logger.Log.Info().Msg("Server stopped")
	return nil
}
