package remote

import (
	"context"
	"net/http"

	"github.com/ArbeitTechnology/tausif-lms-sub000/core/qbank"
	"github.com/ArbeitTechnology/tausif-lms-sub000/core/session"
)

// QuestionClient is the client of the backend question bank API.
type QuestionClient struct {
	*Client
}

var _ qbank.Bank = (*QuestionClient)(nil)

func NewQuestionClient(c *Client) *QuestionClient {
	return &QuestionClient{c}
}

type created struct {
	ID string `json:"_id"`
}

// Create stores a question and returns its server id.
func (c *QuestionClient) Create(ctx context.Context, sess session.Session, w qbank.Wire) (string, error) {
	w.ID, w.TempID = "", ""
	var res created
	req := c.request(ctx, sess).SetBody(w)
	if err := c.do(req, http.MethodPost, "/questions", &res); err != nil {
		return "", err
	}
	return res.ID, nil
}

// Update replaces the question id.
func (c *QuestionClient) Update(ctx context.Context, sess session.Session, id string, w qbank.Wire) error {
	w.ID, w.TempID = "", ""
	req := c.request(ctx, sess).SetPathParam("id", id).SetBody(w)
	return c.do(req, http.MethodPut, "/questions/{id}", nil)
}

func (c *QuestionClient) Delete(ctx context.Context, sess session.Session, id string) error {
	req := c.request(ctx, sess).SetPathParam("id", id)
	return c.do(req, http.MethodDelete, "/questions/{id}", nil)
}

// List returns the questions of the bank matching filter.
func (c *QuestionClient) List(ctx context.Context, sess session.Session, filter qbank.Filter) ([]qbank.Wire, error) {
	req := c.request(ctx, sess)
	params := map[string]string{
		"category":   filter.Category,
		"difficulty": string(filter.Difficulty),
		"type":       string(filter.Type),
	}
	for k, v := range params {
		if v != "" {
			req.SetQueryParam(k, v)
		}
	}
	questions := []qbank.Wire{}
	if err := c.do(req, http.MethodGet, "/questions", &questions); err != nil {
		return nil, err
	}
	return questions, nil
}

// For binds the client to a session, for batch submissions.
func (c *QuestionClient) For(sess session.Session) qbank.Creator {
	return boundQuestions{c, sess}
}

type boundQuestions struct {
	client *QuestionClient
	sess   session.Session
}

func (b boundQuestions) CreateQuestion(ctx context.Context, w qbank.Wire) (string, error) {
	return b.client.Create(ctx, b.sess, w)
}

func (b boundQuestions) DeleteQuestion(ctx context.Context, id string) error {
	return b.client.Delete(ctx, b.sess, id)
}
