package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"

	"planer-backend/database"
	"planer-backend/firebase"
	"planer-backend/handlers"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Fatal("Erro ao carregar o arquivo .env")
	}

	ctx := context.Background()

	db, err := database.ConnectPostgres()
	if err != nil {
		log.Fatalf("Erro ao conectar ao banco de dados: %v", err)
	}
	defer db.Close()

	app, err := firebase.InitializeFirebase(ctx)
	if err != nil {
		log.Fatalf("Erro ao inicializar Firebase: %v", err)
	}

	authClient, err := firebase.NewAuthClient(ctx, app)
	if err != nil {
		log.Fatalf("Erro ao obter cliente de Auth: %v", err)
	}

	firestoreClient, err := firebase.NewFirestoreClient(ctx, app)
	if err != nil {
		log.Fatalf("Erro ao obter cliente do Firestore: %v", err)
	}
	defer firestoreClient.Close()

	handlers.InitServices(ctx, db, authClient,
		firebase.NewTaskDocs(firestoreClient),
		firebase.NewCategoryDocs(firestoreClient))

	LoadRoutes()
}
