package database

import (
	"fmt"

	"gorm.io/gorm"
)

// AddIndexes adds performance-critical indexes to the database
func AddIndexes(db *gorm.DB) error {
	indexes := []struct {
		table   string
		name    string
		columns string
	}{
		// Issue indexes for filtering and sorting
		{"issues", "idx_issues_project_id", "project_id"},
		{"issues", "idx_issues_author_id", "author_id"},
		{"issues", "idx_issues_assignee_id", "assignee_id"},
		{"issues", "idx_issues_status", "status"},
		{"issues", "idx_issues_created_at", "created_at"},

		// Contributor indexes for membership lookups
		{"contributors", "idx_contributors_project_id", "project_id"},
		{"contributors", "idx_contributors_user_id", "user_id"},

		// Comment indexes
		{"comments", "idx_comments_issue_id", "issue_id"},
		{"comments", "idx_comments_author_id", "author_id"},

		// Project author index
		{"projects", "idx_projects_author_id", "author_id"},
	}

	for _, idx := range indexes {
		if db.Migrator().HasIndex(idx.table, idx.name) {
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}
	}

	return nil
}
