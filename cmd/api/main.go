package main

import (
	"context"
	"log"
	"os"

	"cloud.google.com/go/firestore"
	fbapp "firebase.google.com/go/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"google.golang.org/api/option"

	"github.com/xujalz/Lost-And-Found/internal/adapter/api"
	"github.com/xujalz/Lost-And-Found/internal/adapter/api/handler"
	apimiddleware "github.com/xujalz/Lost-And-Found/internal/adapter/api/middleware"
	"github.com/xujalz/Lost-And-Found/internal/adapter/api/router"
	"github.com/xujalz/Lost-And-Found/internal/adapter/repository"
	"github.com/xujalz/Lost-And-Found/internal/domain/entity"
	"github.com/xujalz/Lost-And-Found/internal/domain/service"
	"github.com/xujalz/Lost-And-Found/internal/infrastructure/auth"
	"github.com/xujalz/Lost-And-Found/internal/infrastructure/firebase"
	"github.com/xujalz/Lost-And-Found/internal/infrastructure/storage"
	"github.com/xujalz/Lost-And-Found/internal/infrastructure/websocket"
	"github.com/xujalz/Lost-And-Found/internal/usecase"
	"github.com/xujalz/Lost-And-Found/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()

	var opts []option.ClientOption
	credentialsPath := os.Getenv("FIREBASE_SERVICE_ACCOUNT_PATH")
	if serviceAccountJSON := os.Getenv("FIREBASE_SERVICE_ACCOUNT_JSON"); serviceAccountJSON != "" {
		opts = append(opts, option.WithCredentialsJSON([]byte(serviceAccountJSON)))
		credentialsPath = ""
	} else if credentialsPath != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsPath))
	}

	firebaseApp, err := fbapp.NewApp(ctx, &fbapp.Config{ProjectID: cfg.FirebaseProject}, opts...)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase: %v", err)
	}

	authClient, err := firebaseApp.Auth(ctx)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase Auth: %v", err)
	}

	firestoreClient, err := firestore.NewClient(ctx, cfg.FirebaseProject, opts...)
	if err != nil {
		log.Fatalf("Failed to create Firestore client: %v", err)
	}
	defer firestoreClient.Close()

	storageClient, err := storage.NewCloudStorageClient(ctx, cfg.StorageBucket, credentialsPath)
	if err != nil {
		log.Fatalf("Failed to initialize Cloud Storage: %v", err)
	}
	defer storageClient.Close()

	userRepo := repository.NewFirestoreUserRepository(firestoreClient)
	chatRepo := repository.NewFirestoreChatRepository(firestoreClient)
	itemRepo := repository.NewFirestoreItemRepository(firestoreClient)

	// Development accepts locally minted HS256 tokens so the stack runs
	// without a Firebase project; everything else verifies Firebase ID
	// tokens.
	var verifier service.TokenVerifier
	if cfg.Environment == "development" && cfg.JWTSecret != "" {
		log.Printf("Using local token verifier (development mode)")
		verifier = auth.NewDevTokenVerifier(cfg.JWTSecret)
	} else {
		verifier = firebase.NewFirebaseAuthClient(authClient)
	}

	registry := websocket.NewRegistry()
	hub := websocket.NewHub(registry, verifier)

	chatUseCase := usecase.NewChatUseCase(chatRepo, userRepo, hub)
	itemUseCase := usecase.NewItemUseCase(itemRepo, userRepo)
	userUseCase := usecase.NewUserUseCase(userRepo)

	hub.SetChatService(chatUseCase)

	e := echo.New()

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{cfg.ClientURL},
	}))

	e.Validator = api.NewValidator()

	authMiddleware := apimiddleware.NewAuthMiddleware(verifier)

	handlers := router.Handlers{
		Chat:      handler.NewChatHandler(chatUseCase),
		LostItem:  handler.NewItemHandler(itemUseCase, entity.ItemKindLost),
		FoundItem: handler.NewItemHandler(itemUseCase, entity.ItemKindFound),
		File:      handler.NewFileHandler(storageClient),
		User:      handler.NewUserHandler(userUseCase),
		Health:    handler.NewHealthHandler(),
		WebSocket: handler.NewWebSocketHandler(hub),
	}

	router.Setup(e, handlers, authMiddleware)

	log.Printf("Starting server on port %s...", cfg.ServerPort)
	e.Logger.Fatal(e.Start(":" + cfg.ServerPort))
}
