package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/praxis-pr/entity-intel/internal/models"
)

const neo4jConnectTimeout = 10 * time.Second

// Neo4jStore implements Store over a Neo4j database. Each profile is an
// Organization node carrying the JSON-encoded profile plus a version
// counter; history records are HistoryEvent nodes linked to their
// organization.
type Neo4jStore struct {
	driver   neo4j.DriverWithContext
	database string
	logger   *slog.Logger
}

// NewNeo4jStore connects to Neo4j and verifies connectivity.
func NewNeo4jStore(uri, username, password, database string, logger *slog.Logger) (*Neo4jStore, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(username, password, ""))
	if err != nil {
		return nil, fmt.Errorf("connecting to Neo4j at %s: %w", uri, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), neo4jConnectTimeout)
	defer cancel()
	if err := driver.VerifyConnectivity(ctx); err != nil {
		_ = driver.Close(ctx)
		return nil, fmt.Errorf("verifying Neo4j connection at %s: %w", uri, err)
	}

	logger.Info("connected to Neo4j", "uri", uri, "database", database)

	return &Neo4jStore{
		driver:   driver,
		database: database,
		logger:   logger,
	}, nil
}

// GetProfile retrieves a single profile by entity id.
func (n *Neo4jStore) GetProfile(ctx context.Context, id string) (*models.EntityProfile, error) {
	session := n.session(ctx, neo4j.AccessModeRead)
	defer func() { _ = session.Close(ctx) }()

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, runErr := tx.Run(ctx,
			`MATCH (o:Organization {id: $id})
			 RETURN o.payload AS payload, o.version AS version`,
			map[string]any{"id": id})
		if runErr != nil {
			return nil, runErr
		}
		records, collectErr := res.Collect(ctx)
		if collectErr != nil {
			return nil, collectErr
		}
		if len(records) == 0 {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return decodeProfileRecord(records[0])
	})
	if err != nil {
		return nil, err
	}
	return result.(*models.EntityProfile), nil
}

// UpsertProfile inserts or unconditionally replaces a profile.
func (n *Neo4jStore) UpsertProfile(ctx context.Context, profile *models.EntityProfile) (*models.EntityProfile, error) {
	if profile.ID == "" {
		return nil, fmt.Errorf("upsert: profile id must not be empty")
	}
	payload, err := json.Marshal(profile)
	if err != nil {
		return nil, fmt.Errorf("upsert: encoding profile %s: %w", profile.ID, err)
	}

	session := n.session(ctx, neo4j.AccessModeWrite)
	defer func() { _ = session.Close(ctx) }()

	result, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, runErr := tx.Run(ctx,
			`MERGE (o:Organization {id: $id})
			 ON CREATE SET o.version = 1
			 ON MATCH SET o.version = o.version + 1
			 SET o.payload = $payload, o.last_updated = $updated
			 RETURN o.version AS version`,
			map[string]any{
				"id":      profile.ID,
				"payload": string(payload),
				"updated": profile.LastUpdated.UTC(),
			})
		if runErr != nil {
			return nil, runErr
		}
		record, singleErr := res.Single(ctx)
		if singleErr != nil {
			return nil, singleErr
		}
		version, _ := record.Get("version")
		return version.(int64), nil
	})
	if err != nil {
		return nil, fmt.Errorf("upserting profile %s: %w", profile.ID, err)
	}

	stored := profile.Clone()
	stored.Version = result.(int64)
	return stored, nil
}

// UpdateProfile replaces an existing profile iff the version matches.
// The version check and the write happen in one managed transaction, so
// a concurrent writer loses with ErrConflict instead of silently
// overwriting.
func (n *Neo4jStore) UpdateProfile(ctx context.Context, profile *models.EntityProfile) (*models.EntityProfile, error) {
	if profile.ID == "" {
		return nil, fmt.Errorf("update: profile id must not be empty")
	}
	payload, err := json.Marshal(profile)
	if err != nil {
		return nil, fmt.Errorf("update: encoding profile %s: %w", profile.ID, err)
	}

	session := n.session(ctx, neo4j.AccessModeWrite)
	defer func() { _ = session.Close(ctx) }()

	result, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, runErr := tx.Run(ctx,
			`MATCH (o:Organization {id: $id}) RETURN o.version AS version`,
			map[string]any{"id": profile.ID})
		if runErr != nil {
			return nil, runErr
		}
		records, collectErr := res.Collect(ctx)
		if collectErr != nil {
			return nil, collectErr
		}
		if len(records) == 0 {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, profile.ID)
		}
		storedVersion, _ := records[0].Get("version")
		if storedVersion.(int64) != profile.Version {
			return nil, fmt.Errorf("%w: %s: stored version %d, submitted %d",
				ErrConflict, profile.ID, storedVersion, profile.Version)
		}

		res, runErr = tx.Run(ctx,
			`MATCH (o:Organization {id: $id})
			 SET o.payload = $payload, o.version = $next, o.last_updated = $updated
			 RETURN o.version AS version`,
			map[string]any{
				"id":      profile.ID,
				"payload": string(payload),
				"next":    profile.Version + 1,
				"updated": profile.LastUpdated.UTC(),
			})
		if runErr != nil {
			return nil, runErr
		}
		if _, singleErr := res.Single(ctx); singleErr != nil {
			return nil, singleErr
		}
		return profile.Version + 1, nil
	})
	if err != nil {
		return nil, err
	}

	stored := profile.Clone()
	stored.Version = result.(int64)
	return stored, nil
}

// QueryHistory returns history records newest first.
func (n *Neo4jStore) QueryHistory(ctx context.Context, entityID string) ([]models.HistoryRecord, error) {
	session := n.session(ctx, neo4j.AccessModeRead)
	defer func() { _ = session.Close(ctx) }()

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, runErr := tx.Run(ctx,
			`MATCH (e:HistoryEvent {entity_id: $entity_id})
			 RETURN e.id AS id, e.entity_id AS entity_id, e.timestamp AS timestamp,
			        e.change_type AS change_type, e.significance AS significance,
			        e.description AS description, e.impact_score AS impact_score
			 ORDER BY e.timestamp DESC`,
			map[string]any{"entity_id": entityID})
		if runErr != nil {
			return nil, runErr
		}
		records, collectErr := res.Collect(ctx)
		if collectErr != nil {
			return nil, collectErr
		}
		out := make([]models.HistoryRecord, 0, len(records))
		for _, rec := range records {
			out = append(out, decodeHistoryRecord(rec))
		}
		return out, nil
	})
	if err != nil {
		return nil, fmt.Errorf("querying history for %s: %w", entityID, err)
	}
	return result.([]models.HistoryRecord), nil
}

// AppendHistory adds one history record linked to its organization.
func (n *Neo4jStore) AppendHistory(ctx context.Context, record models.HistoryRecord) error {
	if record.EntityID == "" {
		return fmt.Errorf("append history: entity id must not be empty")
	}

	session := n.session(ctx, neo4j.AccessModeWrite)
	defer func() { _ = session.Close(ctx) }()

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, runErr := tx.Run(ctx,
			`MERGE (o:Organization {id: $entity_id})
			 CREATE (e:HistoryEvent {
			   id: $id, entity_id: $entity_id, timestamp: $timestamp,
			   change_type: $change_type, significance: $significance,
			   description: $description, impact_score: $impact_score
			 })-[:EVENT_OF]->(o)`,
			map[string]any{
				"id":           record.ID,
				"entity_id":    record.EntityID,
				"timestamp":    record.Timestamp.UTC(),
				"change_type":  record.ChangeType,
				"significance": string(record.Significance),
				"description":  record.Description,
				"impact_score": record.ImpactScore,
			})
		if runErr != nil {
			return nil, runErr
		}
		return nil, res.Err()
	})
	if err != nil {
		return fmt.Errorf("appending history for %s: %w", record.EntityID, err)
	}
	return nil
}

// Ping verifies connectivity to the database.
func (n *Neo4jStore) Ping(ctx context.Context) error {
	return n.driver.VerifyConnectivity(ctx)
}

// Close shuts down the underlying driver.
func (n *Neo4jStore) Close(ctx context.Context) error {
	return n.driver.Close(ctx)
}

func (n *Neo4jStore) session(ctx context.Context, mode neo4j.AccessMode) neo4j.SessionWithContext {
	return n.driver.NewSession(ctx, neo4j.SessionConfig{
		DatabaseName: n.database,
		AccessMode:   mode,
	})
}

func decodeProfileRecord(record *neo4j.Record) (*models.EntityProfile, error) {
	rawPayload, ok := record.Get("payload")
	if !ok {
		return nil, fmt.Errorf("organization node missing payload")
	}
	payload, ok := rawPayload.(string)
	if !ok {
		return nil, fmt.Errorf("organization payload has unexpected type %T", rawPayload)
	}
	var profile models.EntityProfile
	if err := json.Unmarshal([]byte(payload), &profile); err != nil {
		return nil, fmt.Errorf("decoding profile payload: %w", err)
	}
	if rawVersion, ok := record.Get("version"); ok {
		if v, ok := rawVersion.(int64); ok {
			profile.Version = v
		}
	}
	return &profile, nil
}

func decodeHistoryRecord(record *neo4j.Record) models.HistoryRecord {
	out := models.HistoryRecord{
		ID:          stringField(record, "id"),
		EntityID:    stringField(record, "entity_id"),
		ChangeType:  stringField(record, "change_type"),
		Description: stringField(record, "description"),
	}
	out.Significance = models.Significance(stringField(record, "significance"))
	if raw, ok := record.Get("timestamp"); ok {
		if ts, ok := raw.(time.Time); ok {
			out.Timestamp = ts
		}
	}
	if raw, ok := record.Get("impact_score"); ok {
		switch v := raw.(type) {
		case float64:
			out.ImpactScore = v
		case int64:
			out.ImpactScore = float64(v)
		}
	}
	return out
}

func stringField(record *neo4j.Record, key string) string {
	raw, ok := record.Get(key)
	if !ok {
		return ""
	}
	s, _ := raw.(string)
	return s
}
