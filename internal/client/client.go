// Package client отправляет изменения одного поля записи (оценка, посещение) на сервер.
// Состояния: Idle -> Sending -> Success | Failure; повторов нет.
// Ответ на устаревший запрос к тому же полю игнорируется
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	DefaultTimeout = 5 * time.Second
	// DefaultGrace задержка перед скрытием индикатора после успеха
	DefaultGrace = 250 * time.Millisecond

	actionPath = "/mod/scheduler/ajax"
	// тело ошибки обрезается до этого размера
	maxBodySize = 64 << 10
)

const (
	ActionSaveGrade = "savegrade"
	ActionSaveSeen  = "saveseen"
)

// Request одно изменение поля записи
type Request struct {
	Action        string
	CMID          int64
	AppointmentID int64
	Field         string // grade или seen
	Value         string
}

// GradeRequest изменение оценки; formatting.NoGrade снимает оценку
func GradeRequest(cmid, appointmentID int64, grade int) Request {
	return Request{
		Action:        ActionSaveGrade,
		CMID:          cmid,
		AppointmentID: appointmentID,
		Field:         "grade",
		Value:         strconv.Itoa(grade),
	}
}

// SeenRequest изменение отметки о посещении
func SeenRequest(cmid, appointmentID int64, attended bool) Request {
	value := "0"
	if attended {
		value = "1"
	}
	return Request{
		Action:        ActionSaveSeen,
		CMID:          cmid,
		AppointmentID: appointmentID,
		Field:         "seen",
		Value:         value,
	}
}

func (r Request) key() string {
	return r.Action + ":" + strconv.FormatInt(r.AppointmentID, 10)
}

// Indicator обратная связь для пользователя
type Indicator interface {
	ShowSpinner()
	HideSpinner()
	ShowError(f *Failure)
}

// Failure неуспешный ответ или ошибка сети. StatusCode 0 - ответа не было
type Failure struct {
	StatusCode int
	Status     string
	Body       string
	Message    string // message из конверта ответа, если тело - JSON
	Err        error
}

func (f *Failure) Error() string {
	if f.StatusCode == 0 {
		return fmt.Sprintf("update failed: %s: %v", f.Status, f.Err)
	}
	text := f.Message
	if text == "" {
		text = f.Body
	}
	return fmt.Sprintf("update failed: %s: %s", f.Status, text)
}

func (f *Failure) Unwrap() error { return f.Err }

// Timeout - запрос прерван по таймауту
func (f *Failure) Timeout() bool {
	return errors.Is(f.Err, context.DeadlineExceeded)
}

// Result итог отправки. Stale - пока запрос шёл, для того же поля был отправлен новый,
// и этот ответ не повлиял на индикатор
type Result struct {
	Stale bool
}

// Outcome результат асинхронной отправки
type Outcome struct {
	Result Result
	Err    error
}

type Client struct {
	baseURL   string
	token     string
	sesskey   string
	http      *http.Client
	timeout   time.Duration
	grace     time.Duration
	afterFunc func(d time.Duration, f func())
	logger    *zap.Logger

	mu        sync.Mutex
	sequences map[string]uint64
}

type Option func(*Client)

// WithToken сессионный токен для заголовка Authorization
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithSesskey токен CSRF для cookie-сессии
func WithSesskey(sesskey string) Option {
	return func(c *Client) { c.sesskey = sesskey }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

func WithGrace(d time.Duration) Option {
	return func(c *Client) { c.grace = d }
}

func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    http.DefaultClient,
		timeout: DefaultTimeout,
		grace:   DefaultGrace,
		afterFunc: func(d time.Duration, f func()) {
			time.AfterFunc(d, f)
		},
		logger:    zap.NewNop(),
		sequences: make(map[string]uint64),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) next(key string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sequences[key]++
	return c.sequences[key]
}

func (c *Client) current(key string, seq uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sequences[key] == seq
}

// Send отправляет изменение и ждёт ответа. Ошибка - всегда *Failure
func (c *Client) Send(ctx context.Context, req Request, ind Indicator) (Result, error) {
	key := req.key()
	seq := c.next(key)

	ind.ShowSpinner()

	failure := c.do(ctx, req)

	if !c.current(key, seq) {
		c.logger.Debug("Stale response ignored", zap.String("field", key), zap.Uint64("seq", seq))
		return Result{Stale: true}, nil
	}

	if failure == nil {
		c.afterFunc(c.grace, func() {
			if c.current(key, seq) {
				ind.HideSpinner()
			}
		})
		return Result{}, nil
	}

	ind.HideSpinner()
	ind.ShowError(failure)
	c.logger.Warn("Update failed",
		zap.String("field", key),
		zap.Int("status", failure.StatusCode),
		zap.String("body", failure.Body))
	return Result{}, failure
}

// Go отправляет изменение в отдельной горутине
func (c *Client) Go(ctx context.Context, req Request, ind Indicator) <-chan Outcome {
	out := make(chan Outcome, 1)
	go func() {
		res, err := c.Send(ctx, req, ind)
		out <- Outcome{Result: res, Err: err}
	}()
	return out
}

func (c *Client) do(ctx context.Context, req Request) *Failure {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	form := url.Values{
		"action":        {req.Action},
		"id":            {strconv.FormatInt(req.CMID, 10)},
		"appointmentid": {strconv.FormatInt(req.AppointmentID, 10)},
		req.Field:       {req.Value},
	}
	if c.sesskey != "" {
		form.Set("sesskey", c.sesskey)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+actionPath, strings.NewReader(form.Encode()))
	if err != nil {
		return &Failure{Status: "invalid request", Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	httpReq.Header.Set("X-Requested-With", "XMLHttpRequest")
	if c.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		status := "network error"
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			status = "timeout"
			err = context.DeadlineExceeded
		}
		return &Failure{Status: status, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return &Failure{StatusCode: resp.StatusCode, Status: resp.Status, Err: fmt.Errorf("read body: %w", err)}
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	return &Failure{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Body:       string(body),
		Message:    envelopeMessage(body),
	}
}

// envelopeMessage поле message из JSON-конверта, иначе пустая строка
func envelopeMessage(body []byte) string {
	var env struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		return ""
	}
	return env.Message
}
