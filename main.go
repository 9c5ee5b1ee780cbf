package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"agency-crm/backend/handlers"
	"agency-crm/backend/logging"
	"agency-crm/backend/services"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func createSerialIndex(collection *mongo.Collection) error {
	indexModel := mongo.IndexModel{
		Keys:    bson.M{"serial_id": 1},
		Options: options.Index().SetUnique(true),
	}
	_, err := collection.Indexes().CreateOne(context.TODO(), indexModel)
	if err != nil {
		return fmt.Errorf("failed to create unique serial index on %s: %v", collection.Name(), err)
	}
	return nil
}

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found, using environment variables")
	}
	logging.InitLogger()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	mongoURI := getenv("MONGO_URI", "mongodb://localhost:27017")
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		logging.Logger.Fatalf("database connection failed: %v", err)
	}
	defer client.Disconnect(context.TODO())

	if err := client.Ping(ctx, nil); err != nil {
		logging.Logger.Fatalf("MongoDB connection error: %v", err)
	}
	fmt.Println("Connected to MongoDB!")

	db := client.Database(getenv("MONGO_DB", "agency_db"))
	countersCollection := db.Collection("counters")
	projectsCollection := db.Collection("projects")
	employeesCollection := db.Collection("employees")
	clientsCollection := db.Collection("clients")
	usersCollection := db.Collection("users")
	departmentsCollection := db.Collection("departments")
	positionsCollection := db.Collection("positions")
	skillsCollection := db.Collection("skills")
	offeringsCollection := db.Collection("services")

	for _, c := range []*mongo.Collection{projectsCollection, employeesCollection, clientsCollection} {
		if err := createSerialIndex(c); err != nil {
			logging.Logger.Fatalf("%v", err)
		}
	}

	// Services
	sequenceService := services.NewSequenceService(countersCollection)
	directoryService := services.NewDirectoryService(usersCollection, employeesCollection, clientsCollection)
	notifierService := services.NewNotifierService(os.Getenv("NOTIFICATIONS_URL"))
	financeService := services.NewFinanceService(projectsCollection, directoryService, notifierService)
	reportService := services.NewReportService(projectsCollection)
	projectService := services.NewProjectService(projectsCollection, directoryService, sequenceService)
	employeeService := services.NewEmployeeService(employeesCollection, sequenceService)
	clientService := services.NewClientService(clientsCollection, sequenceService)

	departmentService := services.NewCatalogService(departmentsCollection, sequenceService, "departmentId", "department")
	positionService := services.NewCatalogService(positionsCollection, sequenceService, "positionId", "position")
	skillService := services.NewCatalogService(skillsCollection, sequenceService, "skillId", "skill")
	offeringService := services.NewCatalogService(offeringsCollection, sequenceService, "serviceId", "service")

	// Handlers
	financeHandler := handlers.NewFinanceHandler(financeService)
	reportHandler := handlers.NewReportHandler(reportService)
	projectHandler := handlers.NewProjectHandler(projectService)
	employeeHandler := handlers.NewEmployeeHandler(employeeService)
	clientHandler := handlers.NewClientHandler(clientService)

	r := mux.NewRouter()

	// Finance ledger
	r.HandleFunc("/projects/{projectId}/installments", financeHandler.RecordInstallmentHandler).Methods("POST")
	r.HandleFunc("/projects/{projectId}/payments", financeHandler.RecordEmployeePaymentHandler).Methods("POST")
	r.HandleFunc("/projects/{projectId}/expenses", financeHandler.RecordExpenseHandler).Methods("POST")

	// Reports
	r.HandleFunc("/projects/{projectId}/summary", reportHandler.ProjectSummaryHandler).Methods("GET")
	r.HandleFunc("/reports/company", reportHandler.CompanyReportHandler).Methods("GET")
	r.HandleFunc("/dashboard", reportHandler.DashboardHandler).Methods("GET")

	// Projects
	r.HandleFunc("/projects", projectHandler.CreateProjectHandler).Methods("POST")
	r.HandleFunc("/projects", projectHandler.ListProjectsHandler).Methods("GET")
	r.HandleFunc("/projects/{projectId}", projectHandler.GetProjectHandler).Methods("GET")
	r.HandleFunc("/projects/{projectId}", projectHandler.UpdateProjectHandler).Methods("PUT")
	r.HandleFunc("/projects/{projectId}/employees", projectHandler.AssignEmployeeHandler).Methods("POST")
	r.HandleFunc("/projects/{projectId}/employees/{employeeId}", projectHandler.RemoveEmployeeHandler).Methods("DELETE")
	r.HandleFunc("/projects/{projectId}", projectHandler.SoftDeleteProjectHandler).Methods("DELETE")
	r.HandleFunc("/projects/{projectId}/restore", projectHandler.RestoreProjectHandler).Methods("POST")
	r.HandleFunc("/projects/{projectId}/permanent", projectHandler.DeleteProjectHandler).Methods("DELETE")

	// Employees
	r.HandleFunc("/employees", employeeHandler.CreateEmployeeHandler).Methods("POST")
	r.HandleFunc("/employees", employeeHandler.ListEmployeesHandler).Methods("GET")
	r.HandleFunc("/employees/{employeeId}", employeeHandler.GetEmployeeHandler).Methods("GET")
	r.HandleFunc("/employees/{employeeId}", employeeHandler.SoftDeleteEmployeeHandler).Methods("DELETE")
	r.HandleFunc("/employees/{employeeId}/restore", employeeHandler.RestoreEmployeeHandler).Methods("POST")

	// Clients
	r.HandleFunc("/clients", clientHandler.CreateClientHandler).Methods("POST")
	r.HandleFunc("/clients", clientHandler.ListClientsHandler).Methods("GET")
	r.HandleFunc("/clients/{clientId}", clientHandler.GetClientHandler).Methods("GET")
	r.HandleFunc("/clients/{clientId}", clientHandler.SoftDeleteClientHandler).Methods("DELETE")
	r.HandleFunc("/clients/{clientId}/restore", clientHandler.RestoreClientHandler).Methods("POST")

	// Reference collections
	registerCatalogRoutes(r, "/departments", handlers.NewCatalogHandler(departmentService))
	registerCatalogRoutes(r, "/positions", handlers.NewCatalogHandler(positionService))
	registerCatalogRoutes(r, "/skills", handlers.NewCatalogHandler(skillService))
	registerCatalogRoutes(r, "/services", handlers.NewCatalogHandler(offeringService))

	corsRouter := enableCORS(r)

	port := getenv("PORT", "8080")
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      corsRouter,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	fmt.Println("Agency backend running on port " + port)
	logging.Logger.Fatal(srv.ListenAndServe())
}

func registerCatalogRoutes(r *mux.Router, prefix string, h *handlers.CatalogHandler) {
	r.HandleFunc(prefix, h.CreateHandler).Methods("POST")
	r.HandleFunc(prefix, h.ListHandler).Methods("GET")
	r.HandleFunc(prefix+"/{id}", h.GetHandler).Methods("GET")
	r.HandleFunc(prefix+"/{id}", h.SoftDeleteHandler).Methods("DELETE")
	r.HandleFunc(prefix+"/{id}/restore", h.RestoreHandler).Methods("POST")
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, Role")
		w.Header().Set("Access-Control-Max-Age", "86400")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
