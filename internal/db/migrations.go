package db

import (
	"fmt"

	"gorm.io/gorm"
)

var migrationStatements = []string{
	`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	`CREATE EXTENSION IF NOT EXISTS "pgcrypto";`,
	`DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'user_role') THEN
			CREATE TYPE user_role AS ENUM ('ADMIN', 'TPS_OFFICER', 'DRIVER');
		END IF;
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'tps_status') THEN
			CREATE TYPE tps_status AS ENUM ('PENUH', 'TIDAK_PENUH');
		END IF;
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'schedule_status') THEN
			CREATE TYPE schedule_status AS ENUM ('PENDING_APPROVAL', 'PENDING', 'APPROVED', 'ASSIGNED', 'IN_PROGRESS', 'COMPLETED', 'CANCELLED');
		END IF;
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'schedule_generation') THEN
			CREATE TYPE schedule_generation AS ENUM ('MANUAL', 'AI_GENERATED');
		END IF;
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'request_status') THEN
			CREATE TYPE request_status AS ENUM ('OPEN', 'SCHEDULED', 'CLOSED');
		END IF;
	END
	$$;`,
	`CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		name VARCHAR(255) NOT NULL,
		email VARCHAR(255) NOT NULL,
		password_hash TEXT NOT NULL,
		role user_role NOT NULL,
		approved BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_users_email ON users (email);`,
	`CREATE TABLE IF NOT EXISTS tps (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		name VARCHAR(255) NOT NULL,
		latitude DOUBLE PRECISION NOT NULL,
		longitude DOUBLE PRECISION NOT NULL,
		address TEXT,
		status tps_status NOT NULL DEFAULT 'TIDAK_PENUH',
		assigned_officer_id UUID REFERENCES users(id),
		last_updated TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_tps_status ON tps (status);`,
	`CREATE INDEX IF NOT EXISTS idx_tps_assigned_officer_id ON tps (assigned_officer_id) WHERE assigned_officer_id IS NOT NULL;`,
	`CREATE TABLE IF NOT EXISTS schedules (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		date DATE NOT NULL,
		driver_id UUID REFERENCES users(id),
		status schedule_status NOT NULL,
		generation schedule_generation NOT NULL,
		total_distance_km NUMERIC(12,3) NOT NULL DEFAULT 0,
		estimated_minutes NUMERIC(12,2) NOT NULL DEFAULT 0,
		rejection_reason TEXT,
		approved_by UUID REFERENCES users(id),
		approved_at TIMESTAMPTZ,
		assigned_at TIMESTAMPTZ,
		started_at TIMESTAMPTZ,
		completed_at TIMESTAMPTZ,
		is_recurring BOOLEAN NOT NULL DEFAULT FALSE,
		recurrence_rule VARCHAR(64),
		recurrence_until DATE,
		created_by UUID NOT NULL REFERENCES users(id),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_schedules_date ON schedules (date);`,
	`CREATE INDEX IF NOT EXISTS idx_schedules_driver_id ON schedules (driver_id) WHERE driver_id IS NOT NULL;`,
	`CREATE INDEX IF NOT EXISTS idx_schedules_status ON schedules (status);`,
	`CREATE TABLE IF NOT EXISTS schedule_stops (
		schedule_id UUID NOT NULL REFERENCES schedules(id) ON DELETE CASCADE,
		tps_id UUID NOT NULL REFERENCES tps(id),
		sequence INT NOT NULL,
		distance_from_prev_km NUMERIC(12,3) NOT NULL DEFAULT 0,
		minutes_from_prev NUMERIC(12,2) NOT NULL DEFAULT 0,
		completed BOOLEAN NOT NULL DEFAULT FALSE,
		completed_at TIMESTAMPTZ,
		proof_photo_url TEXT,
		notes TEXT,
		has_issue BOOLEAN NOT NULL DEFAULT FALSE,
		driver_latitude DOUBLE PRECISION,
		driver_longitude DOUBLE PRECISION,
		PRIMARY KEY (schedule_id, tps_id)
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_schedule_stops_sequence ON schedule_stops (schedule_id, sequence);`,
	`CREATE TABLE IF NOT EXISTS proofs (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		driver_id UUID NOT NULL REFERENCES users(id),
		tps_id UUID NOT NULL REFERENCES tps(id),
		schedule_id UUID NOT NULL REFERENCES schedules(id) ON DELETE CASCADE,
		photo_url TEXT NOT NULL,
		taken_at TIMESTAMPTZ NOT NULL,
		verified BOOLEAN NOT NULL DEFAULT FALSE,
		verified_by UUID REFERENCES users(id),
		verified_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_proofs_schedule_id ON proofs (schedule_id);`,
	`CREATE INDEX IF NOT EXISTS idx_proofs_driver_id ON proofs (driver_id);`,
	`CREATE TABLE IF NOT EXISTS driver_locations (
		driver_id UUID PRIMARY KEY REFERENCES users(id),
		schedule_id UUID REFERENCES schedules(id) ON DELETE SET NULL,
		latitude DOUBLE PRECISION NOT NULL,
		longitude DOUBLE PRECISION NOT NULL,
		speed_kmh DOUBLE PRECISION,
		heading DOUBLE PRECISION,
		recorded_at TIMESTAMPTZ NOT NULL
	);`,
	`CREATE INDEX IF NOT EXISTS idx_driver_locations_recorded_at ON driver_locations (recorded_at);`,
	`CREATE TABLE IF NOT EXISTS collection_requests (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		tps_id UUID NOT NULL REFERENCES tps(id),
		requested_by UUID NOT NULL REFERENCES users(id),
		note TEXT,
		status request_status NOT NULL DEFAULT 'OPEN',
		schedule_id UUID REFERENCES schedules(id) ON DELETE SET NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		resolved_at TIMESTAMPTZ
	);`,
	`CREATE INDEX IF NOT EXISTS idx_collection_requests_tps_id ON collection_requests (tps_id);`,
	`CREATE INDEX IF NOT EXISTS idx_collection_requests_status ON collection_requests (status);`,
}

func runMigrations(db *gorm.DB) error {
	for i, stmt := range migrationStatements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
