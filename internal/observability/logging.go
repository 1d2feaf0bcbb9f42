// Package observability provides structured logging for the idle RPG host.
package observability

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/cory-johannsen/idlerpg/internal/config"
	"github.com/cory-johannsen/idlerpg/internal/game/event"
)

// NewLogger creates a structured logger from the given logging configuration.
// Every entry carries a "service" field naming the binary.
//
// Precondition: cfg.Level must be one of "debug", "info", "warn", "error".
// Precondition: cfg.Format must be "json" or "console".
// Postcondition: Returns a configured zap.Logger or a non-nil error.
func NewLogger(cfg config.LoggingConfig, service string) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("parsing log level %q: %w", cfg.Level, err)
	}

	var zapCfg zap.Config
	switch cfg.Format {
	case "json":
		zapCfg = zap.NewProductionConfig()
	case "console":
		zapCfg = zap.NewDevelopmentConfig()
	default:
		return nil, fmt.Errorf("unknown log format %q", cfg.Format)
	}

	zapCfg.Level = zap.NewAtomicLevelAt(level)
	zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if service != "" {
		zapCfg.InitialFields = map[string]interface{}{"service": service}
	}

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}
	return logger, nil
}

// EventFields renders a game event as zap fields. Only the payload fields
// relevant to the event type are included.
func EventFields(saveID string, ev event.GameEvent) []zap.Field {
	fields := []zap.Field{
		zap.String("save_id", saveID),
		zap.Int64("event_id", ev.ID),
		zap.Int64("at_ms", ev.AtMs),
		zap.String("type", string(ev.Type)),
	}
	p := ev.Payload
	switch ev.Type {
	case event.Error:
		fields = append(fields, zap.String("code", string(p.Code)), zap.String("message", p.Message))
	case event.EncounterResolved:
		fields = append(fields,
			zap.String("enemy_id", p.EnemyID),
			zap.String("outcome", string(p.Outcome)),
			zap.Float64("player_power", p.PlayerPower),
			zap.Float64("enemy_power", p.EnemyPower),
		)
	case event.LevelUp:
		fields = append(fields, zap.String("kind", string(p.Kind)), zap.Int("level", p.Level))
		if p.SkillID != "" {
			fields = append(fields, zap.String("skill_id", p.SkillID))
		}
	case event.QuestAccepted, event.QuestProgress, event.QuestCompleted, event.QuestAbandoned:
		fields = append(fields, zap.String("quest_id", p.QuestID), zap.String("template_id", p.TemplateID))
	case event.TickProcessed:
		fields = append(fields, zap.Int64("ticks", p.Ticks))
	}
	return fields
}
