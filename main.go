package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/Subhom1/clickmate-backend/routes"
	"github.com/Subhom1/clickmate-backend/services"
	"github.com/Subhom1/clickmate-backend/socket"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

func main() {
	// Initialize DynamoDB client and service
	log.Println("Initializing DynamoDB client...")
	dynamoClient := services.InitializeDynamoDBClient()
	dynamoService := &services.DynamoService{Client: dynamoClient}
	log.Println("DynamoDB client initialized.")

	// Initialize Services
	userProfileService := &services.UserProfileService{Dynamo: dynamoService}
	chatService := &services.ChatService{Dynamo: dynamoService, Profiles: userProfileService}
	exploreService := &services.ExploreService{Dynamo: dynamoService}
	s3Service, err := services.NewS3Service()
	if err != nil {
		log.Fatalf("Failed to initialize S3 client: %v", err)
	}

	// Wire the pairing engine
	scorerURL := os.Getenv("SIMILARITY_API_URL")
	if scorerURL == "" {
		scorerURL = "http://localhost:5000"
	}
	registry := services.NewSearchRegistry()
	searchService := services.NewSearchService(
		&services.DynamoSearchStore{Dynamo: dynamoService},
		services.NewHTTPScorer(scorerURL),
		&services.SocketNotifier{Registry: registry},
		registry,
		userProfileService,
	)
	if seconds, err := strconv.Atoi(os.Getenv("SEARCH_TIMEOUT_SECONDS")); err == nil && seconds > 0 {
		searchService.Config.Timeout = time.Duration(seconds) * time.Second
	}

	// Set up the server port
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Using server port: %s\n", port)

	// Initialize the router
	r := mux.NewRouter()

	// Register a welcome route
	r.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, "Welcome to Clickmate")
	}).Methods("GET")

	// Register a health check endpoint
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		response := map[string]string{"status": "healthy"}
		json.NewEncoder(w).Encode(response)
	}).Methods("GET")

	// Register routes
	routes.RegisterUserProfileRoutes(r, userProfileService)
	routes.RegisterChatRoutes(r, chatService)
	routes.RegisterExploreRoutes(r, exploreService)
	routes.RegisterS3Routes(r, s3Service)

	// Mount the Socket.IO server
	socketServer := socket.NewSocketServer(searchService, chatService)
	go func() {
		if err := socketServer.Serve(); err != nil {
			log.Fatalf("Socket server error: %v", err)
		}
	}()
	defer socketServer.Close()
	r.PathPrefix("/socket.io/").Handler(socketServer)

	// Add CORS middleware
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"}, // Adjust for specific domains if needed
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(r)

	// Start the HTTP server
	log.Printf("Starting server on port %s...\n", port)
	log.Fatal(http.ListenAndServe(":"+port, corsHandler))
}
