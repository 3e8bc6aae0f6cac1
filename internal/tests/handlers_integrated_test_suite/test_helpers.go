package handlers_integrated_test_suite

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/rogerio-castellano/plant-store/internal/db"
	"github.com/rogerio-castellano/plant-store/internal/http/handlers"
	"github.com/rogerio-castellano/plant-store/internal/http/router"
	"github.com/rogerio-castellano/plant-store/internal/repo"
	log "github.com/sirupsen/logrus"
)

// setup connects to DATABASE_URL and skips the test when it is not set.
func setup(t *testing.T) (http.Handler, *repo.PostgresPlantRepository) {
	t.Helper()

	dbUrl := os.Getenv("DATABASE_URL")
	if dbUrl == "" {
		t.Skip("DATABASE_URL not set, skipping integration test")
	}

	database, err := db.Connect(context.Background(), dbUrl)
	if err != nil {
		t.Fatalf("❌ Could not connect to database: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	if err := db.EnsureSchema(context.Background(), database); err != nil {
		t.Fatalf("creating schema: %v", err)
	}
	t.Cleanup(func() { clearAllPlants(database) })

	logger := log.New()
	logger.SetOutput(io.Discard)

	plantRepo := repo.NewPostgresPlantRepository(database, 3*time.Second)
	r := router.NewRouter(router.Deps{
		Plants: handlers.NewPlantHandler(plantRepo),
		Logger: logger,
	})
	return r, plantRepo
}

func clearAllPlants(database *sql.DB) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	// Without RESTART IDENTITY so ids are never handed out twice.
	_, err := database.ExecContext(ctx, "TRUNCATE TABLE plants")
	if err != nil {
		fmt.Println(fmt.Errorf("failed to truncate plants table: %w", err))
	}
}

func doRequest(r http.Handler, method, path string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}
