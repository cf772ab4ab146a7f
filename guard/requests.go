package guard

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/vkguard/vkguard/validate"
)

// Request is a typed API request. Implementations name their method, check
// their own fields, and render themselves as wire parameters.
type Request interface {
	Method() string
	Validate() error
	Params() Params
}

// Do validates the request and executes it through the operation pipeline.
// Rejected requests never reach the upstream but are still audited.
func (s *Service) Do(ctx context.Context, req Request) ([]byte, error) {
	start := time.Now()
	if err := validate.All(validate.Method(req.Method()), req.Validate()); err != nil {
		s.recorder.Record(ctx, Outcome{
			Operation: req.Method(),
			Duration:  time.Since(start),
			Err:       err,
			Attempts:  1,
		})
		return nil, err
	}
	return s.Call(ctx, req.Method(), req.Params())
}

// UsersGetRequest fetches user profiles by id.
type UsersGetRequest struct {
	UserIDs []int64
	Fields  []string
}

func (r UsersGetRequest) Method() string { return "users.get" }

func (r UsersGetRequest) Validate() error {
	if len(r.UserIDs) == 0 {
		return &validate.ValidationError{Param: "user_ids", Reason: "must not be empty"}
	}
	for _, id := range r.UserIDs {
		if err := validate.ID("user_ids", id); err != nil {
			return err
		}
	}
	return nil
}

func (r UsersGetRequest) Params() Params {
	p := Params{"user_ids": joinIDs(r.UserIDs)}
	if len(r.Fields) > 0 {
		p["fields"] = strings.Join(r.Fields, ",")
	}
	return p
}

// WallGetRequest fetches posts from a user or community wall. A community
// wall is addressed by the negated group id.
type WallGetRequest struct {
	OwnerID int64
	Count   int
	Offset  int
}

// maxWallCount is the upstream page size limit for wall.get.
const maxWallCount = 100

func (r WallGetRequest) Method() string { return "wall.get" }

func (r WallGetRequest) Validate() error {
	checks := []error{validate.ID("owner_id", r.OwnerID)}
	if r.Count != 0 {
		checks = append(checks, validate.Count("count", r.Count, maxWallCount))
	}
	if r.Offset < 0 {
		checks = append(checks, &validate.ValidationError{Param: "offset", Reason: "must not be negative"})
	}
	return validate.All(checks...)
}

func (r WallGetRequest) Params() Params {
	p := Params{"owner_id": strconv.FormatInt(r.OwnerID, 10)}
	if r.Count != 0 {
		p["count"] = strconv.Itoa(r.Count)
	}
	if r.Offset != 0 {
		p["offset"] = strconv.Itoa(r.Offset)
	}
	return p
}

// MessagesSendRequest sends a text message to a peer.
type MessagesSendRequest struct {
	PeerID   int64
	Message  string
	RandomID int64
}

func (r MessagesSendRequest) Method() string { return "messages.send" }

func (r MessagesSendRequest) Validate() error {
	return validate.All(
		validate.ID("peer_id", r.PeerID),
		func() error {
			if strings.TrimSpace(r.Message) == "" {
				return &validate.ValidationError{Param: "message", Reason: "must not be empty"}
			}
			return nil
		}(),
	)
}

func (r MessagesSendRequest) Params() Params {
	return Params{
		"peer_id":   strconv.FormatInt(r.PeerID, 10),
		"message":   r.Message,
		"random_id": strconv.FormatInt(r.RandomID, 10),
	}
}

func joinIDs(ids []int64) string {
	var b strings.Builder
	for i, id := range ids {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatInt(id, 10))
	}
	return b.String()
}
