// Package profile turns the API's weak-topic analysis into the learner
// progress report shown by the profile screen and the profile command.
package profile

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/abhisek/studymate/internal/api"
)

// NoTopic is shown for best/weakest topic when nothing has been attempted.
const NoTopic = "-"

// Report is the rendered-ready profile of one learner.
type Report struct {
	UserID         string
	Name           string
	AvgAccuracy    string // e.g. "72.5%"
	Attempts       int
	Correct        int
	BestTopic      string
	WeakestTopic   string
	WeakTopics     []string
	Recommendation string
	Rows           []Row
}

// Row is one line of the per-topic history table.
type Row struct {
	Date     string
	Topic    string
	Score    string // "correct/attempts"
	Accuracy string
}

// Build derives a Report from the API response. Missing sections render
// as zero attempts and 0.0% accuracy.
func Build(resp *api.WeakTopicsResponse) Report {
	if resp == nil {
		resp = &api.WeakTopicsResponse{}
	}

	summary := api.ProfileSummary{}
	if resp.Summary != nil {
		summary = *resp.Summary
	}

	r := Report{
		UserID:       resp.UserID,
		AvgAccuracy:  formatPercent(summary.Accuracy),
		Attempts:     summary.Attempts,
		Correct:      summary.Correct,
		BestTopic:    NoTopic,
		WeakestTopic: NoTopic,
		WeakTopics:   append([]string(nil), resp.WeakTopics...),
	}
	r.Recommendation = recommendation(r.WeakTopics)

	if resp.User == nil {
		return r
	}
	r.Name = resp.User.Name
	if resp.User.UserID != "" && r.UserID == "" {
		r.UserID = resp.User.UserID
	}

	topics := resp.User.Topics
	if len(topics) > 0 {
		sorted := append([]api.TopicStat(nil), topics...)
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].Accuracy > sorted[j].Accuracy
		})
		r.BestTopic = sorted[0].Topic
		r.WeakestTopic = sorted[len(sorted)-1].Topic
	}

	date := joinedDate(resp.User.Joined)
	for _, t := range topics {
		r.Rows = append(r.Rows, Row{
			Date:     date,
			Topic:    t.Topic,
			Score:    fmt.Sprintf("%d/%d", t.Correct, t.Attempts),
			Accuracy: formatPercent(t.Accuracy),
		})
	}
	return r
}

func recommendation(weak []string) string {
	if len(weak) == 0 {
		return "You are performing evenly across topics."
	}
	return "You should spend more time on: " + strings.Join(weak, ", ") + "."
}

func formatPercent(v float64) string {
	return fmt.Sprintf("%.1f%%", v)
}

// joinedDate keeps the date part of a "YYYY-MM-DD HH:MM:SS" timestamp.
func joinedDate(joined string) string {
	date, _, _ := strings.Cut(joined, " ")
	return date
}

// API fetches the analysis a Report is built from.
type API interface {
	WeakTopics(ctx context.Context, userID string) (*api.WeakTopicsResponse, error)
}

// Load fetches and builds the report for userID.
func Load(ctx context.Context, a API, userID string) (Report, error) {
	resp, err := a.WeakTopics(ctx, userID)
	if err != nil {
		return Report{}, err
	}
	r := Build(resp)
	if r.UserID == "" {
		r.UserID = userID
	}
	return r, nil
}
