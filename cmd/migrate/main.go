package main

import (
	"log"
	"os"

	"dream-insight-be/internal/model"
	"dream-insight-be/pkg/database"

	"github.com/joho/godotenv"
)

func main() {
	// 1. Load Environment Variables
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	// 2. Connect to Database using existing GORM helpers
	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	log.Println("Starting Authoritative GORM Migration...")

	// 3. Pre-Migration: Extensions (Things GORM AutoMigrate doesn't do)
	log.Println("Step 1: Setting up Extensions...")

	setupSQL := []string{
		`CREATE EXTENSION IF NOT EXISTS pgcrypto;`,
		`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
		`CREATE EXTENSION IF NOT EXISTS vector;`,
	}

	for _, sql := range setupSQL {
		if err := db.Exec(sql).Error; err != nil {
			log.Printf("Warn: Failed to execute setup SQL: %v. Continuing...", err)
		}
	}

	// 4. AutoMigrate All Models
	log.Println("Step 2: Running AutoMigrate...")

	models := []interface{}{
		&model.Dream{},
		&model.Interpretation{},
		&model.KnowledgeFragment{},
		&model.Theme{},
	}

	if err := db.AutoMigrate(models...); err != nil {
		log.Fatalf("Error: AutoMigrate failed: %v", err)
	}

	// 5. Post-Migration: Vector Indexes & Views
	log.Println("Step 3: Creating Vector Indexes and Views...")

	postMigrationSQL := []string{
		// ANN index for fragment retrieval (cosine space)
		`CREATE INDEX IF NOT EXISTS idx_knowledge_fragments_embedding
		 ON knowledge_fragments USING hnsw (embedding_value vector_cosine_ops);`,

		// View: embedded fragments ready for retrieval
		`CREATE OR REPLACE VIEW retrievable_fragments AS
		 SELECT kf.id, kf.source_id, kf.chapter, kf.content, kf.primary_type, kf.confidence, kf.embedding_value
		 FROM knowledge_fragments kf
		 WHERE kf.embedding_value IS NOT NULL;`,
	}

	for _, sql := range postMigrationSQL {
		if err := db.Exec(sql).Error; err != nil {
			log.Printf("Warn: Failed to execute post-migration SQL: %v", err)
		}
	}

	log.Println("✅ Success: Database migration completed successfully via GORM.")
}
