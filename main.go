package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"

	"supper_server/routes"
	"supper_server/services"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

func main() {
	// Initialize DynamoDB client and service
	log.Println("Initializing DynamoDB client...")
	dynamoClient := services.InitializeDynamoDBClient()
	dynamoService := &services.DynamoService{Client: dynamoClient}
	log.Println("DynamoDB client initialized.")

	// Stores own the transactional state transitions
	matchStore := &services.DynamoMatchStore{Dynamo: dynamoService}
	dinnerStore := &services.DynamoDinnerStore{Dynamo: dynamoService}
	eventStore := &services.DynamoEventStore{Dynamo: dynamoService}
	memberStore := &services.DynamoMemberStore{Dynamo: dynamoService}

	// Outbound gateway (Twilio when configured, stub otherwise)
	smsService := services.NewSMSServiceFromEnv()

	// Initialize Services
	matchService := &services.MatchService{Store: matchStore, Members: memberStore, SMS: smsService}
	dinnerService := &services.DinnerService{Store: dinnerStore, SMS: smsService}
	confirmationService := &services.ConfirmationService{Matches: matchStore, Dinners: dinnerStore, SMS: smsService}
	eventService := &services.EventService{Store: eventStore}
	memberService := &services.MemberService{Store: memberStore, SMS: smsService}

	// Set up the server port
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	adminToken := os.Getenv("ADMIN_TOKEN")
	if adminToken == "" {
		log.Println("ADMIN_TOKEN not set; admin routes are disabled.")
	}

	// Initialize the router
	r := mux.NewRouter()

	// Register a welcome route
	r.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, "Welcome to Supper")
	}).Methods("GET")

	// Register a health check endpoint
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		response := map[string]string{"status": "healthy"}
		json.NewEncoder(w).Encode(response)
	}).Methods("GET")

	// Register routes
	routes.RegisterMatchRoutes(r, matchService, adminToken)
	routes.RegisterDinnerRoutes(r, dinnerService, adminToken)
	routes.RegisterEventRoutes(r, eventService, adminToken)
	routes.RegisterMemberRoutes(r, memberService)
	routes.RegisterSMSRoutes(r, confirmationService)

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
