package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"github.com/won-N-only/egg-talk-server-sub000/routes"
	"github.com/won-N-only/egg-talk-server-sub000/services"
	"github.com/won-N-only/egg-talk-server-sub000/socket"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment")
	}

	// Initialize stores
	log.Println("Initializing Redis client...")
	redisService := &services.RedisService{Client: services.InitializeRedisClient()}
	log.Println("Initializing DynamoDB client...")
	dynamoService := &services.DynamoService{Client: services.InitializeDynamoDBClient()}

	// Initialize Services
	friendService := &services.FriendService{
		Directory: &services.DynamoFriendDirectory{Dynamo: dynamoService, Table: os.Getenv("FRIENDS_TABLE")},
		Store:     redisService,
	}
	meetingService := &services.MeetingService{Store: redisService}
	drawingService := &services.DrawingService{Store: redisService}
	mediaService := &services.MediaService{Presigner: services.NewS3Presigner(), Drawings: drawingService}
	sessionService := &services.SessionService{
		Video:    services.NewOpenViduClient(),
		Meetings: meetingService,
		Drawings: drawingService,
	}
	timerService := &services.TimerService{Sessions: sessionService}
	sessionService.Timers = timerService
	queueService := &services.QueueService{
		Store:    redisService,
		Friends:  friendService,
		Matcher:  &services.GroupMatcher{},
		Sessions: sessionService,
		Timers:   timerService,
	}

	// Set up the server port
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	// Initialize the socket server
	socketServer := socket.NewSocketServer(queueService, sessionService, meetingService, drawingService)
	go func() {
		if err := socketServer.Serve(); err != nil {
			log.Fatalf("Socket server error: %v", err)
		}
	}()
	defer socketServer.Close()

	// Initialize the router
	r := mux.NewRouter()
	r.Handle("/socket.io/", socketServer)

	// Register a welcome route
	r.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, "Welcome to Egg Talk")
	}).Methods("GET")

	// Register a health check endpoint
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "healthy"})
	}).Methods("GET")

	// Register routes
	routes.RegisterMeetingRoutes(r, queueService, sessionService)
	routes.RegisterMediaRoutes(r, mediaService)

	// Add CORS middleware
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(r)

	// Start the HTTP server
	log.Printf("Starting server on port %s...\n", port)
	log.Fatal(http.ListenAndServe(":"+port, corsHandler))
}
