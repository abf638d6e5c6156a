package store

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code string
		meta map[string]any
	}{
		{
			name: "postgres unique",
			err:  &pq.Error{Code: "23505", Detail: `Key ("conversationId")=(c1) already exists.`, Constraint: "ApiKey_conversationId_key"},
			code: CodeUniqueConstraint,
			meta: map[string]any{"target": []string{"conversationId"}},
		},
		{
			name: "postgres unique without detail",
			err:  &pq.Error{Code: "23505", Constraint: "idx_Project_path"},
			code: CodeUniqueConstraint,
			meta: map[string]any{"target": []string{"idx_Project_path"}},
		},
		{
			name: "postgres foreign key",
			err:  &pq.Error{Code: "23503", Constraint: "fk_Conversation_Messages"},
			code: CodeForeignKeyConstraint,
			meta: map[string]any{"field_name": "fk_Conversation_Messages"},
		},
		{
			name: "postgres not null",
			err:  &pq.Error{Code: "23502", Column: "title"},
			code: CodeNullConstraint,
			meta: map[string]any{"constraint": []string{"title"}},
		},
		{
			name: "mysql duplicate",
			err:  &mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'c1' for key 'ApiKey.idx_ApiKey_conversationId'"},
			code: CodeUniqueConstraint,
			meta: map[string]any{"target": []string{"ApiKey.idx_ApiKey_conversationId"}},
		},
		{
			name: "mysql foreign key",
			err: &mysql.MySQLError{Number: 1452, Message: "Cannot add or update a child row: a foreign key constraint fails " +
				"(`db`.`Message`, CONSTRAINT `fk_Conversation_Messages` FOREIGN KEY (`conversationId`) REFERENCES `Conversation` (`id`))"},
			code: CodeForeignKeyConstraint,
			meta: map[string]any{"field_name": "fk_Conversation_Messages"},
		},
		{
			name: "mysql not null",
			err:  &mysql.MySQLError{Number: 1048, Message: "Column 'title' cannot be null"},
			code: CodeNullConstraint,
			meta: map[string]any{"constraint": []string{"title"}},
		},
		{
			name: "sqlite composite unique",
			err:  errors.New("UNIQUE constraint failed: Todo.title, Todo.position"),
			code: CodeUniqueConstraint,
			meta: map[string]any{"target": []string{"title", "position"}},
		},
		{
			name: "sqlite foreign key",
			err:  errors.New("FOREIGN KEY constraint failed"),
			code: CodeForeignKeyConstraint,
			meta: map[string]any{"field_name": "foreign key"},
		},
		{
			name: "wrapped sqlite not null",
			err:  fmt.Errorf("insert: %w", errors.New("NOT NULL constraint failed: Todo.title")),
			code: CodeNullConstraint,
			meta: map[string]any{"constraint": []string{"title"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			k := classify(tt.err)
			require.NotNil(t, k)
			assert.Equal(t, tt.code, k.Code)
			assert.Equal(t, tt.meta, k.Meta)
			assert.ErrorIs(t, k, tt.err)
		})
	}

	assert.Nil(t, classify(errors.New("disk I/O error")))
	assert.Nil(t, classify(&pq.Error{Code: "42601"}))
	assert.Nil(t, classify(&mysql.MySQLError{Number: 1064}))
}

func TestTranslate(t *testing.T) {
	c := &Client{}

	err := c.translate("Todo", "create", errors.New("UNIQUE constraint failed: Todo.id"))
	var known *KnownRequestError
	require.ErrorAs(t, err, &known)
	assert.Equal(t, "Todo", known.Model)
	assert.Equal(t, "create", known.Operation)
	assert.Equal(t, "store: Todo.create: Unique constraint failed on the fields: (`id`) (P2002)", err.Error())

	valid := &ValidationError{Message: "bad"}
	assert.Same(t, valid, c.translate("Todo", "create", valid))

	assert.ErrorIs(t, c.translate("Todo", "findMany", context.Canceled), context.Canceled)

	err = c.translate("Todo", "findMany", errors.New("no such table: Todo"))
	var unknown *UnknownRequestError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "store: Todo.findMany: no such table: Todo", err.Error())

	nf := notFound("Todo", "No Todo found")
	err = c.translate("Todo", "findUniqueOrThrow", nf)
	assert.True(t, IsNotFound(err))
	assert.False(t, IsUniqueViolation(err))
	assert.Equal(t, "findUniqueOrThrow", nf.Operation)
}
