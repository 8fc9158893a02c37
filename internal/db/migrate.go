package db

import (
	"context"
	_ "embed"
	"fmt"
	"strings"
)

//go:embed sql/pre_automigrate.sql
var preAutoMigrateSQL string

//go:embed sql/post_automigrate.sql
var postAutoMigrateSQL string

// autoMigrate runs the pre-migrate SQL, gorm AutoMigrate for the models and
// the post-migrate SQL that adds constraints and indexes gorm cannot express.
func (p *Pool) autoMigrate(ctx context.Context) error {
	if p == nil || p.gdb == nil {
		return fmt.Errorf("database pool is not initialized")
	}

	steps := []struct {
		name string
		run  func(ctx context.Context) error
	}{
		{name: "pre-auto-migrate", run: func(ctx context.Context) error { return p.execScript(ctx, preAutoMigrateSQL) }},
		{name: "gorm auto-migrate", run: func(ctx context.Context) error {
			return p.gdb.WithContext(ctx).AutoMigrate(autoMigrateModels()...)
		}},
		{name: "post-auto-migrate", run: func(ctx context.Context) error { return p.execScript(ctx, postAutoMigrateSQL) }},
	}
	for _, step := range steps {
		if err := step.run(ctx); err != nil {
			return fmt.Errorf("%s: %w", step.name, err)
		}
	}
	return nil
}

func (p *Pool) execScript(ctx context.Context, script string) error {
	trimmed := strings.TrimSpace(script)
	if trimmed == "" {
		return nil
	}
	return p.gdb.WithContext(ctx).Exec(trimmed).Error
}
