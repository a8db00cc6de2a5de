package remote

import (
	"context"
	"io"
	"net/http"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"

	"github.com/ArbeitTechnology/tausif-lms-sub000/core/course"
	"github.com/ArbeitTechnology/tausif-lms-sub000/core/session"
)

// CourseClient is the client of the backend Course API.
type CourseClient struct {
	*Client
}

func NewCourseClient(c *Client) *CourseClient {
	return &CourseClient{c}
}

func (c *CourseClient) Fetch(ctx context.Context, sess session.Session, id string) (*course.Document, error) {
	doc := new(course.Document)
	req := c.request(ctx, sess).SetPathParam("id", id)
	if err := c.do(req, http.MethodGet, "/courses/{id}", doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// Create submits a new course and returns the saved document.
func (c *CourseClient) Create(ctx context.Context, sess session.Session, p *course.Payload) (*course.Document, error) {
	return c.submit(ctx, sess, http.MethodPost, "/courses", "", p)
}

// Update submits the whole course id and returns the saved document.
func (c *CourseClient) Update(ctx context.Context, sess session.Session, id string, p *course.Payload) (*course.Document, error) {
	return c.submit(ctx, sess, http.MethodPut, "/courses/{id}", id, p)
}

func (c *CourseClient) Delete(ctx context.Context, sess session.Session, id string) error {
	req := c.request(ctx, sess).SetPathParam("id", id)
	return c.do(req, http.MethodDelete, "/courses/{id}", nil)
}

// DeleteContent deletes one content item of a saved course.
func (c *CourseClient) DeleteContent(ctx context.Context, sess session.Session, courseID, contentID string) error {
	req := c.request(ctx, sess).SetPathParams(map[string]string{"id": courseID, "contentId": contentID})
	return c.do(req, http.MethodDelete, "/courses/{id}/content/{contentId}", nil)
}

func (c *CourseClient) submit(ctx context.Context, sess session.Session, method, path, id string, p *course.Payload) (*course.Document, error) {
	fields, err := p.FormFields()
	if err != nil {
		return nil, err
	}
	req := c.request(ctx, sess).SetMultipartFormData(fields)
	if id != "" {
		req.SetPathParam("id", id)
	}

	files, err := attachFiles(req, p.Files())
	defer func() {
		for _, f := range files {
			_ = f.Close()
		}
	}()
	if err != nil {
		return nil, err
	}

	doc := new(course.Document)
	if err = c.do(req, method, path, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// attachFiles adds the binary parts to req. The returned readers must be closed once the request is done.
func attachFiles(req *resty.Request, files []course.FormFile) ([]io.Closer, error) {
	opened := make([]io.Closer, 0, len(files))
	for _, f := range files {
		r, err := f.File.Open()
		if err != nil {
			return opened, errors.Wrapf(err, "opening %s", f.File.Filename)
		}
		opened = append(opened, r)
		req.SetMultipartField(f.Param, f.File.Filename, f.File.ContentType, r)
	}
	return opened, nil
}
