package assistant

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/studymate/internal/api"
	"github.com/abhisek/studymate/internal/quiz"
	"github.com/abhisek/studymate/internal/transcript"
)

func setup(m *api.MockClient) (*Assistant, *quiz.Coordinator, *transcript.Log) {
	tr := transcript.NewLog(nil)
	q := quiz.New(m, tr, quiz.Config{NumQuestions: 5, Language: "en"}, nil)
	return New(m, q, tr, "en", nil), q, tr
}

func lastText(t *testing.T, tr *transcript.Log) string {
	t.Helper()
	e, ok := tr.Last()
	require.True(t, ok)
	return e.Text
}

func TestStudyQuestionResolvesPlaceholder(t *testing.T) {
	m := &api.MockClient{
		ChatResults: []api.MockResult[api.ChatResponse]{{Value: &api.ChatResponse{Answer: "Mitochondria make ATP."}}},
	}
	a, _, tr := setup(m)

	require.NoError(t, a.Submit(context.Background(), "  what do mitochondria do?  ", "u1"))

	require.Len(t, m.ChatCalls, 1)
	assert.Equal(t, api.ChatRequest{Query: "what do mitochondria do?", Language: "en"}, m.ChatCalls[0])

	entries := tr.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, transcript.RoleUser, entries[0].Role)
	assert.Equal(t, "what do mitochondria do?", entries[0].Text)
	assert.Equal(t, transcript.KindMessage, entries[1].Kind)
	assert.Equal(t, "Mitochondria make ATP.", entries[1].Text)
}

func TestStudyEmptyAnswer(t *testing.T) {
	m := &api.MockClient{
		ChatResults: []api.MockResult[api.ChatResponse]{{Value: &api.ChatResponse{}}},
	}
	a, _, tr := setup(m)

	require.NoError(t, a.Submit(context.Background(), "hello", "u1"))
	assert.Equal(t, "No response", lastText(t, tr))
}

func TestStudyChatFailure(t *testing.T) {
	m := &api.MockClient{
		ChatResults: []api.MockResult[api.ChatResponse]{{Err: &api.ErrStatus{Code: 502}}},
	}
	a, _, tr := setup(m)

	require.Error(t, a.Submit(context.Background(), "hello", "u1"))

	e, _ := tr.Last()
	assert.Equal(t, transcript.KindError, e.Kind)
	assert.Equal(t, "Server error (502).", e.Text)
}

func TestBlankInputIgnored(t *testing.T) {
	m := &api.MockClient{}
	a, _, tr := setup(m)

	require.NoError(t, a.Submit(context.Background(), "   ", "u1"))
	assert.Equal(t, 0, tr.Len())
	assert.Empty(t, m.ChatCalls)
}

func TestSwitchToQuizStartsOnce(t *testing.T) {
	m := &api.MockClient{
		CreateResults: []api.MockResult[api.CreateQuizResponse]{{Value: &api.CreateQuizResponse{QuizID: "q1", TotalQuestions: 2}}},
		StartResults:  []api.MockResult[api.Question]{{Value: &api.Question{ID: "a", Question: "Define osmosis."}}},
	}
	a, q, tr := setup(m)
	ctx := context.Background()

	require.NoError(t, a.SwitchMode(ctx, ModeQuiz, "u1"))
	require.NoError(t, a.SwitchMode(ctx, ModeQuiz, "u1"))

	assert.Equal(t, ModeQuiz, a.Mode())
	assert.Equal(t, 1, m.CreateCount())
	assert.Equal(t, "Switched to Quiz mode — I'll test your knowledge!", tr.Entries()[0].Text)
	assert.Equal(t, quiz.StateAwaitingAnswer, q.State())
}

func TestFreeTextRoutedToQuiz(t *testing.T) {
	m := &api.MockClient{
		CreateResults: []api.MockResult[api.CreateQuizResponse]{{Value: &api.CreateQuizResponse{QuizID: "q1", TotalQuestions: 1}}},
		StartResults:  []api.MockResult[api.Question]{{Value: &api.Question{ID: "b", Question: "Capital of France?"}}},
		AnswerResults: []api.MockResult[api.AnswerResponse]{{Value: &api.AnswerResponse{
			Correct: true,
			Summary: &api.Summary{Correct: 1, Total: 1},
		}}},
	}
	a, _, tr := setup(m)
	ctx := context.Background()
	require.NoError(t, a.SwitchMode(ctx, ModeQuiz, "u1"))

	require.NoError(t, a.Submit(ctx, "Paris", "u1"))

	require.Len(t, m.AnswerCalls, 1)
	assert.Equal(t, "Paris", m.AnswerCalls[0].UserAnswer)
	assert.Empty(t, m.ChatCalls)
	assert.Equal(t, "Quiz finished! You scored 1 out of 1.", lastText(t, tr))
}

func TestQuizModeChatsOnceQuizIsOver(t *testing.T) {
	m := &api.MockClient{
		CreateResults: []api.MockResult[api.CreateQuizResponse]{{Value: &api.CreateQuizResponse{QuizID: "q1", TotalQuestions: 1}}},
		StartResults:  []api.MockResult[api.Question]{{Value: &api.Question{ID: "b", Question: "Capital of France?"}}},
		AnswerResults: []api.MockResult[api.AnswerResponse]{{Value: &api.AnswerResponse{
			Correct: true,
			Summary: &api.Summary{Correct: 1, Total: 1},
		}}},
		ChatResults: []api.MockResult[api.ChatResponse]{{Value: &api.ChatResponse{Answer: "Plants turn light into sugar."}}},
	}
	a, q, tr := setup(m)
	ctx := context.Background()
	require.NoError(t, a.SwitchMode(ctx, ModeQuiz, "u1"))
	require.NoError(t, a.Submit(ctx, "Paris", "u1"))
	require.Equal(t, quiz.StateFinished, q.State())

	require.NoError(t, a.Submit(ctx, "what is photosynthesis?", "u1"))

	assert.Equal(t, 1, m.AnswerCount())
	require.Len(t, m.ChatCalls, 1)
	assert.Equal(t, "what is photosynthesis?", m.ChatCalls[0].Query)
	assert.Equal(t, "Plants turn light into sugar.", lastText(t, tr))
	assert.Equal(t, ModeQuiz, a.Mode())
}

func TestQuizModeChatsAfterFailedStart(t *testing.T) {
	m := &api.MockClient{
		CreateResults: []api.MockResult[api.CreateQuizResponse]{{Err: &api.ErrStatus{Code: 500}}},
		ChatResults:   []api.MockResult[api.ChatResponse]{{Value: &api.ChatResponse{Answer: "It is 4."}}},
	}
	a, q, tr := setup(m)
	ctx := context.Background()
	require.Error(t, a.SwitchMode(ctx, ModeQuiz, "u1"))
	require.Equal(t, quiz.StateIdle, q.State())

	require.NoError(t, a.Submit(ctx, "what is 2+2?", "u1"))

	require.Len(t, m.ChatCalls, 1)
	assert.Equal(t, "It is 4.", lastText(t, tr))
}

func TestQuizModeRejectsTextWhileChoiceOpen(t *testing.T) {
	m := &api.MockClient{
		CreateResults: []api.MockResult[api.CreateQuizResponse]{{Value: &api.CreateQuizResponse{QuizID: "q1", TotalQuestions: 1}}},
		StartResults:  []api.MockResult[api.Question]{{Value: &api.Question{ID: "a", Question: "2+2?", Options: []string{"3", "4"}}}},
	}
	a, _, tr := setup(m)
	ctx := context.Background()
	require.NoError(t, a.SwitchMode(ctx, ModeQuiz, "u1"))

	require.NoError(t, a.Submit(ctx, "4", "u1"))

	assert.Equal(t, 0, m.AnswerCount())
	assert.Empty(t, m.ChatCalls)
	assert.Equal(t, msgQuizWaiting, lastText(t, tr))
}

func TestSwitchToStudyResetsQuiz(t *testing.T) {
	m := &api.MockClient{
		CreateResults: []api.MockResult[api.CreateQuizResponse]{{Value: &api.CreateQuizResponse{QuizID: "q1", TotalQuestions: 1}}},
		StartResults:  []api.MockResult[api.Question]{{Value: &api.Question{ID: "b", Question: "Capital of France?"}}},
		ChatResults:   []api.MockResult[api.ChatResponse]{{Value: &api.ChatResponse{Answer: "Paris is in France."}}},
	}
	a, q, tr := setup(m)
	ctx := context.Background()
	require.NoError(t, a.SwitchMode(ctx, ModeQuiz, "u1"))
	require.NoError(t, a.SwitchMode(ctx, ModeStudy, "u1"))

	assert.Equal(t, quiz.StateIdle, q.State())
	assert.False(t, q.Session().Active)

	// The free-text question no longer captures input.
	require.NoError(t, a.Submit(ctx, "Where is Paris?", "u1"))
	assert.Equal(t, 0, m.AnswerCount())
	require.Len(t, m.ChatCalls, 1)
	assert.Equal(t, "Paris is in France.", lastText(t, tr))
}

func TestSelectOptionForwarded(t *testing.T) {
	m := &api.MockClient{
		CreateResults: []api.MockResult[api.CreateQuizResponse]{{Value: &api.CreateQuizResponse{QuizID: "q1", TotalQuestions: 1}}},
		StartResults:  []api.MockResult[api.Question]{{Value: &api.Question{ID: "a", Question: "2+2?", Options: []string{"3", "4"}}}},
		AnswerResults: []api.MockResult[api.AnswerResponse]{{Value: &api.AnswerResponse{
			Correct: true,
			Summary: &api.Summary{Correct: 1, Total: 1},
		}}},
	}
	a, _, _ := setup(m)
	ctx := context.Background()
	require.NoError(t, a.SwitchMode(ctx, ModeQuiz, "u1"))

	require.NoError(t, a.SelectOption(ctx, 1))
	require.Len(t, m.AnswerCalls, 1)
	assert.Equal(t, "4", m.AnswerCalls[0].UserAnswer)
}

func TestRapidToggleKeepsLaterMode(t *testing.T) {
	m := &api.MockClient{
		CreateResults: []api.MockResult[api.CreateQuizResponse]{{Value: &api.CreateQuizResponse{QuizID: "q1", TotalQuestions: 1}}},
		StartResults:  []api.MockResult[api.Question]{{Value: &api.Question{ID: "a", Question: "Define osmosis."}}},
	}
	a, q, _ := setup(m)

	ticket, start := a.SetMode(ModeQuiz, "u1")
	require.True(t, start)
	_, start = a.SetMode(ModeStudy, "u1")
	require.False(t, start)

	// The quiz start dispatched before the switch back is dropped unsent.
	require.NoError(t, a.CompleteStart(context.Background(), ticket))
	assert.Equal(t, 0, m.CreateCount())
	assert.Equal(t, quiz.StateIdle, q.State())
	assert.Equal(t, ModeStudy, a.Mode())
}
