package domain

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// RecentWindow is how far back a publication still counts as recent.
const RecentWindow = 24 * time.Hour

type Question struct {
	ID        uuid.UUID `json:"id"`
	Text      string    `json:"text"`
	PubDate   time.Time `json:"pub_date"`
	Choices   []Choice  `json:"choices,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type Choice struct {
	ID         uuid.UUID `json:"id"`
	QuestionID uuid.UUID `json:"question_id"`
	Text       string    `json:"text"`
	Votes      int64     `json:"votes"`
	CreatedAt  time.Time `json:"created_at"`
}

func (q Question) String() string {
	return q.Text
}

// WasPublishedRecently reports whether q was published within RecentWindow of now.
func (q Question) WasPublishedRecently(now time.Time) (bool, error) {
	return PublishedRecently(q.PubDate, now)
}

// IsVisible reports whether q is published at or before now.
func (q Question) IsVisible(now time.Time) (bool, error) {
	return Visible(q.PubDate, now)
}

// Choice returns the choice with the given id, if q owns it.
func (q Question) Choice(id uuid.UUID) (Choice, bool) {
	for _, c := range q.Choices {
		if c.ID == id {
			return c, true
		}
	}
	return Choice{}, false
}

// TotalVotes sums the votes of all choices.
func (q Question) TotalVotes() int64 {
	var total int64
	for _, c := range q.Choices {
		total += c.Votes
	}
	return total
}

// PublishedRecently reports whether now-RecentWindow <= pub <= now.
func PublishedRecently(pub, now time.Time) (bool, error) {
	if pub.IsZero() || now.IsZero() {
		return false, ErrInvalidTime
	}
	return !pub.After(now) && !pub.Before(now.Add(-RecentWindow)), nil
}

// Visible reports whether pub is not in the future relative to now.
func Visible(pub, now time.Time) (bool, error) {
	if pub.IsZero() || now.IsZero() {
		return false, ErrInvalidTime
	}
	return !pub.After(now), nil
}

// VisibleQuestions returns the questions published at or before now, newest
// first. Questions with equal publication times keep their input order.
// The input slice is not modified.
func VisibleQuestions(questions []Question, now time.Time) ([]Question, error) {
	if now.IsZero() {
		return nil, ErrInvalidTime
	}

	visible := make([]Question, 0, len(questions))
	for _, q := range questions {
		ok, err := q.IsVisible(now)
		if err != nil {
			return nil, err
		}
		if ok {
			visible = append(visible, q)
		}
	}

	sort.SliceStable(visible, func(i, j int) bool {
		return visible[i].PubDate.After(visible[j].PubDate)
	})
	return visible, nil
}
