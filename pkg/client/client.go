package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/skillswap/skillswap/pkg/domain"
)

// DefaultTimeout bounds a single API call.
const DefaultTimeout = 30 * time.Second

// Client is the SkillSwap API client.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout overrides DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// New creates a new API client.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the API root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// --- Auth ---

// Credentials is the login payload.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest is the payload for creating an account.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login verifies credentials and returns the matching user.
func (c *Client) Login(ctx context.Context, email, password string) (*domain.User, error) {
	var u domain.User
	if err := c.post(ctx, "/api/auth/login", Credentials{Email: email, Password: password}, &u); err != nil {
		if IsStatus(err, http.StatusUnauthorized) {
			return nil, fmt.Errorf("client.Login: %w: %w", ErrInvalidCredentials, err)
		}
		return nil, fmt.Errorf("client.Login: %w", err)
	}
	return &u, nil
}

// Register creates an account and returns the stored user.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*domain.User, error) {
	var u domain.User
	if err := c.post(ctx, "/api/auth/register", req, &u); err != nil {
		if IsStatus(err, http.StatusConflict) {
			return nil, fmt.Errorf("client.Register: %w: %w", ErrEmailTaken, err)
		}
		return nil, fmt.Errorf("client.Register: %w", err)
	}
	return &u, nil
}

// --- Users ---

// ProfileUpdate carries the editable profile fields. Nil fields are left unchanged.
type ProfileUpdate struct {
	Name      *string `json:"name,omitempty"`
	Bio       *string `json:"bio,omitempty"`
	AvatarURL *string `json:"avatarUrl,omitempty"`
}

// ListUsers returns every registered user.
func (c *Client) ListUsers(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	if err := c.get(ctx, "/api/users", &users); err != nil {
		return nil, fmt.Errorf("client.ListUsers: %w", err)
	}
	return users, nil
}

// SearchUsers returns users with a skill whose name contains skill.
func (c *Client) SearchUsers(ctx context.Context, skill string) ([]domain.User, error) {
	params := url.Values{}
	params.Set("skill", skill)

	var users []domain.User
	if err := c.get(ctx, "/api/users/search?"+params.Encode(), &users); err != nil {
		return nil, fmt.Errorf("client.SearchUsers: %w", err)
	}
	return users, nil
}

// UpdateProfile saves profile fields and returns the updated user.
func (c *Client) UpdateProfile(ctx context.Context, userID int64, upd ProfileUpdate) (*domain.User, error) {
	var u domain.User
	if err := c.doRequest(ctx, http.MethodPut, "/api/users/"+id(userID), upd, &u); err != nil {
		return nil, fmt.Errorf("client.UpdateProfile: %w", err)
	}
	return &u, nil
}

// AddSkillToUser attaches a catalogue skill to a user.
func (c *Client) AddSkillToUser(ctx context.Context, userID, skillID int64) (*domain.User, error) {
	var u domain.User
	if err := c.doRequest(ctx, http.MethodPut, "/api/users/"+id(userID)+"/skills/"+id(skillID), nil, &u); err != nil {
		return nil, fmt.Errorf("client.AddSkillToUser: %w", err)
	}
	return &u, nil
}

// --- Skills ---

// ListSkills returns the skill catalogue.
func (c *Client) ListSkills(ctx context.Context) ([]domain.Skill, error) {
	var skills []domain.Skill
	if err := c.get(ctx, "/api/skills", &skills); err != nil {
		return nil, fmt.Errorf("client.ListSkills: %w", err)
	}
	return skills, nil
}

// CreateSkill adds a skill to the catalogue.
func (c *Client) CreateSkill(ctx context.Context, name string) (*domain.Skill, error) {
	var s domain.Skill
	if err := c.post(ctx, "/api/skills", domain.Skill{Name: name}, &s); err != nil {
		return nil, fmt.Errorf("client.CreateSkill: %w", err)
	}
	return &s, nil
}

// --- Connections ---

// RequestConnection asks receiver to connect with requester.
func (c *Client) RequestConnection(ctx context.Context, requesterID, receiverID int64, note string) (*domain.Connection, error) {
	params := url.Values{}
	params.Set("requesterId", id(requesterID))
	params.Set("receiverId", id(receiverID))
	if note != "" {
		params.Set("message", note)
	}

	var conn domain.Connection
	if err := c.post(ctx, "/api/connections/request?"+params.Encode(), nil, &conn); err != nil {
		return nil, fmt.Errorf("client.RequestConnection: %w", err)
	}
	return &conn, nil
}

// PendingConnections returns connection requests awaiting userID's answer.
func (c *Client) PendingConnections(ctx context.Context, userID int64) ([]domain.Connection, error) {
	var conns []domain.Connection
	if err := c.get(ctx, "/api/connections/pending/"+id(userID), &conns); err != nil {
		return nil, fmt.Errorf("client.PendingConnections: %w", err)
	}
	return conns, nil
}

// SetConnectionStatus accepts or rejects a connection request.
func (c *Client) SetConnectionStatus(ctx context.Context, connectionID int64, status string) (*domain.Connection, error) {
	params := url.Values{}
	params.Set("status", status)

	var conn domain.Connection
	if err := c.doRequest(ctx, http.MethodPut, "/api/connections/"+id(connectionID)+"/status?"+params.Encode(), nil, &conn); err != nil {
		return nil, fmt.Errorf("client.SetConnectionStatus: %w", err)
	}
	return &conn, nil
}

// ListConnections returns every connection userID takes part in.
func (c *Client) ListConnections(ctx context.Context, userID int64) ([]domain.Connection, error) {
	var conns []domain.Connection
	if err := c.get(ctx, "/api/connections/user/"+id(userID), &conns); err != nil {
		return nil, fmt.Errorf("client.ListConnections: %w", err)
	}
	return conns, nil
}

// --- Sessions ---

// ScheduleSession books a session. The backend fills in the duration and the
// meeting link.
func (c *Client) ScheduleSession(ctx context.Context, mentorID, menteeID int64, start time.Time) (*domain.Session, error) {
	params := url.Values{}
	params.Set("mentorId", id(mentorID))
	params.Set("menteeId", id(menteeID))
	params.Set("startTime", start.In(time.Local).Format(domain.LocalLayout))

	var s domain.Session
	if err := c.post(ctx, "/api/sessions/schedule?"+params.Encode(), nil, &s); err != nil {
		return nil, fmt.Errorf("client.ScheduleSession: %w", err)
	}
	return &s, nil
}

// ListSessions returns sessions where userID is mentor or mentee.
func (c *Client) ListSessions(ctx context.Context, userID int64) ([]domain.Session, error) {
	var sessions []domain.Session
	if err := c.get(ctx, "/api/sessions/user/"+id(userID), &sessions); err != nil {
		return nil, fmt.Errorf("client.ListSessions: %w", err)
	}
	return sessions, nil
}

// CancelSession deletes a session.
func (c *Client) CancelSession(ctx context.Context, sessionID int64) error {
	if err := c.doRequest(ctx, http.MethodDelete, "/api/sessions/"+id(sessionID), nil, nil); err != nil {
		return fmt.Errorf("client.CancelSession: %w", err)
	}
	return nil
}

// AcceptSessionRequest is the payload for confirming a session request.
type AcceptSessionRequest struct {
	MeetingLink string           `json:"meetingLink"`
	StartTime   domain.Timestamp `json:"startTime"`
}

// ListSessionRequests returns session requests addressed to mentorID.
func (c *Client) ListSessionRequests(ctx context.Context, mentorID int64) ([]domain.SessionRequest, error) {
	var reqs []domain.SessionRequest
	if err := c.get(ctx, "/api/sessions/requests/mentor/"+id(mentorID), &reqs); err != nil {
		return nil, fmt.Errorf("client.ListSessionRequests: %w", err)
	}
	return reqs, nil
}

// AcceptSessionRequest confirms a session request with the given meeting link.
func (c *Client) AcceptSessionRequest(ctx context.Context, requestID int64, meetingLink string, start time.Time) error {
	body := AcceptSessionRequest{MeetingLink: meetingLink, StartTime: domain.NewTimestamp(start)}
	if err := c.doRequest(ctx, http.MethodPut, "/api/sessions/requests/"+id(requestID)+"/accept", body, nil); err != nil {
		return fmt.Errorf("client.AcceptSessionRequest: %w", err)
	}
	return nil
}

// DeclineSessionRequest deletes a session request.
func (c *Client) DeclineSessionRequest(ctx context.Context, requestID int64) error {
	if err := c.doRequest(ctx, http.MethodDelete, "/api/sessions/requests/"+id(requestID), nil, nil); err != nil {
		return fmt.Errorf("client.DeclineSessionRequest: %w", err)
	}
	return nil
}

// --- Messages ---

// SendMessageRequest is the payload for sending a direct message.
type SendMessageRequest struct {
	SenderID   int64  `json:"senderId"`
	ReceiverID int64  `json:"receiverId"`
	Text       string `json:"text"`
}

// SendMessage posts a direct message.
func (c *Client) SendMessage(ctx context.Context, senderID, receiverID int64, text string) (*domain.Message, error) {
	var msg domain.Message
	req := SendMessageRequest{SenderID: senderID, ReceiverID: receiverID, Text: text}
	if err := c.post(ctx, "/api/messages/send", req, &msg); err != nil {
		return nil, fmt.Errorf("client.SendMessage: %w", err)
	}
	return &msg, nil
}

// Conversation returns the messages exchanged between two users, oldest first.
func (c *Client) Conversation(ctx context.Context, userA, userB int64) ([]domain.Message, error) {
	var msgs []domain.Message
	if err := c.get(ctx, "/api/messages/"+id(userA)+"/"+id(userB), &msgs); err != nil {
		return nil, fmt.Errorf("client.Conversation: %w", err)
	}
	return msgs, nil
}

func id(n int64) string {
	return strconv.FormatInt(n, 10)
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.doRequest(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body any, out any) error {
	return c.doRequest(ctx, http.MethodPost, path, body, out)
}

func (c *Client) doRequest(ctx context.Context, method, path string, body any, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.DebugContext(ctx, "api request failed",
			"method", method, "path", path, "request_id", requestID, "error", err)
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // best-effort close

	c.logger.DebugContext(ctx, "api request",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"request_id", requestID,
		"duration", time.Since(started),
	)

	if resp.StatusCode >= 400 {
		respBody, readErr := io.ReadAll(io.LimitReader(resp.Body, 1<<20)) // 1 MB max error body
		if readErr != nil {
			return &HTTPError{StatusCode: resp.StatusCode, Message: fmt.Sprintf("failed to read body: %v", readErr), RequestID: requestID}
		}
		return &HTTPError{StatusCode: resp.StatusCode, Message: errorMessage(respBody), RequestID: requestID}
	}

	if out != nil {
		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("read response: %w", err)
		}
		if len(bytes.TrimSpace(data)) == 0 {
			return nil
		}
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// errorMessage extracts a readable message from an error body. The backend
// answers with plain text for auth failures and with a Spring error document
// ({"message": ..., "error": ...}) elsewhere.
func errorMessage(body []byte) string {
	var apiErr struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(body, &apiErr) == nil {
		if apiErr.Message != "" {
			return apiErr.Message
		}
		if apiErr.Error != "" {
			return apiErr.Error
		}
	}
	return strings.TrimPrefix(strings.TrimSpace(string(body)), "Error: ")
}
