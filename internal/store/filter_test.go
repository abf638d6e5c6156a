package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedTitles(t *testing.T, c *Client) {
	t.Helper()
	mustTodo(t, c, TodoCreateInput{Title: "Write Docs", Position: Ptr(1), DueDate: Ptr(at(5))})
	mustTodo(t, c, TodoCreateInput{Title: "write tests", Position: Ptr(2), Status: Ptr(TodoStatusBlocked), Description: Ptr("flaky")})
	mustTodo(t, c, TodoCreateInput{Title: "100%_done", Position: Ptr(3), Status: Ptr(TodoStatusCompleted), DueDate: Ptr(at(30))})
	mustTodo(t, c, TodoCreateInput{Title: "deploy", Position: Ptr(4)})
}

func findTitles(t *testing.T, c *Client, where TodoWhereInput) []string {
	t.Helper()
	rows, err := c.Todo.FindMany(context.Background(), TodoFindManyArgs{
		Where:   &where,
		OrderBy: []OrderBy[TodoScalarField]{SortAsc(TodoFieldPosition)},
	})
	require.NoError(t, err)
	return titles(rows)
}

func TestStringFilters(t *testing.T) {
	c := newTestClient(t)
	seedTitles(t, c)

	tests := []struct {
		name  string
		where TodoWhereInput
		want  []string
	}{
		{"equals is exact", TodoWhereInput{Title: StringEquals("write docs")}, []string{}},
		{"equals insensitive", TodoWhereInput{Title: &StringFilter{Equals: Ptr("write docs"), Mode: ModeInsensitive}}, []string{"Write Docs"}},
		{"starts with insensitive", TodoWhereInput{Title: &StringFilter{StartsWith: Ptr("WRITE"), Mode: ModeInsensitive}}, []string{"Write Docs", "write tests"}},
		{"ends with", TodoWhereInput{Title: &StringFilter{EndsWith: Ptr("tests")}}, []string{"write tests"}},
		{"contains escapes wildcards", TodoWhereInput{Title: Contains("%_")}, []string{"100%_done"}},
		{"in", TodoWhereInput{Title: StringIn("deploy", "nope")}, []string{"deploy"}},
		{"empty in matches nothing", TodoWhereInput{Title: StringIn()}, []string{}},
		{"empty not in matches everything", TodoWhereInput{Title: &StringFilter{NotIn: []string{}}}, []string{"Write Docs", "write tests", "100%_done", "deploy"}},
		{"not", TodoWhereInput{Title: &StringFilter{Not: StringEquals("deploy")}}, []string{"Write Docs", "write tests", "100%_done"}},
		{"is null", TodoWhereInput{Description: StringIsNull(false)}, []string{"write tests"}},
		{"range", TodoWhereInput{Title: &StringFilter{Gte: Ptr("a"), Lt: Ptr("e")}}, []string{"deploy"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, findTitles(t, c, tt.where))
		})
	}
}

func TestScalarFilters(t *testing.T) {
	c := newTestClient(t)
	seedTitles(t, c)

	tests := []struct {
		name  string
		where TodoWhereInput
		want  []string
	}{
		{"int range", TodoWhereInput{Position: &IntFilter{Gte: Ptr(2), Lt: Ptr(4)}}, []string{"write tests", "100%_done"}},
		{"int not", TodoWhereInput{Position: &IntFilter{Not: Equals(1)}}, []string{"write tests", "100%_done", "deploy"}},
		{"enum in", TodoWhereInput{Status: In(TodoStatusBacklog, TodoStatusBlocked)}, []string{"Write Docs", "write tests", "deploy"}},
		{"enum not in", TodoWhereInput{Status: NotIn(TodoStatusBacklog)}, []string{"write tests", "100%_done"}},
		{"empty enum in", TodoWhereInput{Status: In[TodoStatus]()}, []string{}},
		{"datetime before", TodoWhereInput{DueDate: &DateTimeFilter{Lt: Ptr(at(10))}}, []string{"Write Docs"}},
		{"datetime null", TodoWhereInput{DueDate: IsNull[time.Time](true)}, []string{"write tests", "deploy"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, findTitles(t, c, tt.where))
		})
	}
}

func TestLogicalFilters(t *testing.T) {
	c := newTestClient(t)
	seedTitles(t, c)
	all := []string{"Write Docs", "write tests", "100%_done", "deploy"}

	tests := []struct {
		name  string
		where TodoWhereInput
		want  []string
	}{
		{"empty where", TodoWhereInput{}, all},
		{"empty AND matches everything", TodoWhereInput{AND: []TodoWhereInput{}}, all},
		{"empty OR matches nothing", TodoWhereInput{OR: []TodoWhereInput{}}, []string{}},
		{"empty NOT matches everything", TodoWhereInput{NOT: []TodoWhereInput{}}, all},
		{"OR", TodoWhereInput{OR: []TodoWhereInput{
			{Title: StringEquals("deploy")},
			{Position: Equals(1)},
		}}, []string{"Write Docs", "deploy"}},
		{"AND", TodoWhereInput{AND: []TodoWhereInput{
			{Title: &StringFilter{StartsWith: Ptr("write"), Mode: ModeInsensitive}},
			{Status: Equals(TodoStatusBlocked)},
		}}, []string{"write tests"}},
		{"NOT", TodoWhereInput{NOT: []TodoWhereInput{
			{Title: &StringFilter{StartsWith: Ptr("write"), Mode: ModeInsensitive}},
		}}, []string{"100%_done", "deploy"}},
		{"fields and combinators are ANDed", TodoWhereInput{
			Status: Equals(TodoStatusBacklog),
			OR:     []TodoWhereInput{{Position: Equals(4)}, {Position: Equals(2)}},
		}, []string{"deploy"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, findTitles(t, c, tt.where))
		})
	}
}

func TestRelationFilters(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t)
	_, err := c.Conversation.Create(ctx, ConversationCreateArgs{Data: ConversationCreateInput{
		Title:    Ptr("one"),
		Project:  &ProjectCreateNestedOne{Create: &ProjectCreateInput{Name: "p"}},
		Messages: &MessageCreateNestedMany{Create: []MessageCreateInput{{Role: "user", Content: "hello"}}},
	}})
	require.NoError(t, err)
	mustConversation(t, c, "two")
	_, err = c.Conversation.Create(ctx, ConversationCreateArgs{Data: ConversationCreateInput{
		Title:    Ptr("three"),
		Messages: &MessageCreateNestedMany{Create: []MessageCreateInput{{Role: "assistant", Content: "x"}}},
	}})
	require.NoError(t, err)

	convTitles := func(where ConversationWhereInput) []string {
		t.Helper()
		rows, err := c.Conversation.FindMany(ctx, ConversationFindManyArgs{
			Where:   &where,
			OrderBy: []OrderBy[ConversationScalarField]{SortAsc(ConversationFieldTitle)},
		})
		require.NoError(t, err)
		out := make([]string, len(rows))
		for i, r := range rows {
			out[i] = *r.Title
		}
		return out
	}
	user := MessageWhereInput{Role: StringEquals("user")}

	assert.Equal(t, []string{"one"}, convTitles(ConversationWhereInput{Messages: &ListRelationFilter[MessageWhereInput]{Some: &user}}))
	assert.Equal(t, []string{"three", "two"}, convTitles(ConversationWhereInput{Messages: &ListRelationFilter[MessageWhereInput]{None: &user}}))
	assert.Equal(t, []string{"two"}, convTitles(ConversationWhereInput{Messages: &ListRelationFilter[MessageWhereInput]{None: &MessageWhereInput{}}}))
	assert.Equal(t, []string{"one", "two"}, convTitles(ConversationWhereInput{Messages: &ListRelationFilter[MessageWhereInput]{Every: &user}}))

	assert.Equal(t, []string{"one"}, convTitles(ConversationWhereInput{Project: &RelationFilter[ProjectWhereInput]{Is: &ProjectWhereInput{Name: StringEquals("p")}}}))
	assert.Equal(t, []string{"three", "two"}, convTitles(ConversationWhereInput{Project: &RelationFilter[ProjectWhereInput]{IsNull: Ptr(true)}}))
	assert.Equal(t, []string{"one"}, convTitles(ConversationWhereInput{Project: &RelationFilter[ProjectWhereInput]{IsNull: Ptr(false)}}))

	msgs, err := c.Message.FindMany(ctx, MessageFindManyArgs{Where: &MessageWhereInput{
		Conversation: &RelationFilter[ConversationWhereInput]{IsNot: &ConversationWhereInput{Title: StringEquals("one")}},
	}})
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "x", msgs[0].Content)

	projects, err := c.Project.FindMany(ctx, ProjectFindManyArgs{Where: &ProjectWhereInput{
		Conversations: &ListRelationFilter[ConversationWhereInput]{Some: &ConversationWhereInput{
			Messages: &ListRelationFilter[MessageWhereInput]{Some: &user},
		}},
	}})
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, "p", projects[0].Name)
}
