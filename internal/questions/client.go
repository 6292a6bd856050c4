package questions

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"txt-trivia/internal/domain"
)

// Client fetches questions from an Open Trivia DB compatible HTTP API. Text
// fields are requested base64-encoded so the trivia content survives URL and
// JSON escaping.
type Client struct {
	baseURL string
	http    *http.Client
	rnd     *rand.Rand
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
		rnd:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

type apiResponse struct {
	ResponseCode int           `json:"response_code"`
	Results      []apiQuestion `json:"results"`
}

type apiQuestion struct {
	Category         string   `json:"category"`
	Type             string   `json:"type"`
	Difficulty       string   `json:"difficulty"`
	Question         string   `json:"question"`
	CorrectAnswer    string   `json:"correct_answer"`
	IncorrectAnswers []string `json:"incorrect_answers"`
}

// Fetch requests count questions, builds their ordered option sets, and sorts
// them easy-to-hard. Non-numeric category ids mean "any category" and are
// omitted from the request.
func (c *Client) Fetch(ctx context.Context, categoryID string, count int) ([]domain.Question, error) {
	requestURL, err := c.requestURL(categoryID, count)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build question request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch questions: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch questions: unexpected status %d", resp.StatusCode)
	}

	var decoded apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode question response: %w", err)
	}
	if decoded.ResponseCode != 0 {
		return nil, fmt.Errorf("question api response code %d: %w",
			decoded.ResponseCode, domain.ErrCategoryNotFound)
	}

	list := make([]domain.Question, 0, len(decoded.Results))
	for _, raw := range decoded.Results {
		question, err := buildQuestion(raw, c.rnd)
		if err != nil {
			return nil, err
		}
		list = append(list, question)
	}
	if len(list) < count {
		return nil, fmt.Errorf("wanted %d questions, got %d: %w",
			count, len(list), domain.ErrQuestionShortfall)
	}

	orderQuestions(list)
	return list[:count], nil
}

func (c *Client) requestURL(categoryID string, count int) (string, error) {
	base, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("parse question api url: %w", err)
	}

	query := url.Values{}
	query.Set("encode", "base64")
	query.Set("amount", strconv.Itoa(count))
	if _, err := strconv.Atoi(categoryID); err == nil {
		query.Set("category", categoryID)
	}
	base.RawQuery = query.Encode()
	return base.String(), nil
}

var difficultyLevels = []string{"easy", "medium", "hard"}

func buildQuestion(raw apiQuestion, rnd *rand.Rand) (domain.Question, error) {
	text, err := fromBase64(raw.Question)
	if err != nil {
		return domain.Question{}, err
	}
	correct, err := fromBase64(raw.CorrectAnswer)
	if err != nil {
		return domain.Question{}, err
	}
	incorrect := make([]string, 0, len(raw.IncorrectAnswers))
	for _, encoded := range raw.IncorrectAnswers {
		option, err := fromBase64(encoded)
		if err != nil {
			return domain.Question{}, err
		}
		incorrect = append(incorrect, option)
	}
	difficulty, err := fromBase64(raw.Difficulty)
	if err != nil {
		return domain.Question{}, err
	}

	question := domain.Question{
		Text:       text,
		Options:    domain.BuildOptions(correct, incorrect, rnd),
		Difficulty: domain.DifficultyUnknown,
	}
	for level, name := range difficultyLevels {
		if name == difficulty {
			question.Difficulty = level
			break
		}
	}
	return question, nil
}

func fromBase64(encoded string) (string, error) {
	decoded, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("decode question field: %w", err)
	}
	return string(decoded), nil
}
