package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMigrationsAreOrdered(t *testing.T) {
	for i, m := range migrations {
		assert.Equal(t, i+1, m.version, m.description)
		assert.NotEmpty(t, m.sql)
	}
}

func TestStatementKind(t *testing.T) {
	assert.Equal(t, "SELECT", statementKind("\n\t select id from tasks"))
	assert.Equal(t, "INSERT", statementKind("INSERT INTO task_logs"))
	assert.Equal(t, "unknown", statementKind("   "))
}
