package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"courseplatform/internal/domain"
)

const baseURL = "https://www.googleapis.com/youtube/v3"

type SearchOptions struct {
	MaxResults      int
	Duration        string // short (<4min), medium (4-20min), long (>20min)
	Order           string // relevance, date, rating, viewCount
	EducationalOnly bool
}

type educationalChannel struct {
	ChannelID    string
	ChannelName  string
	QualityScore float64
}

// Белый список каналов с проверенным образовательным контентом.
// QualityScore идёт бонусом в формулу релевантности.
var educationalChannels = []educationalChannel{
	{"UCWv7vMbMWH4-V0ZXdmDpPBA", "Programming with Mosh", 0.95},
	{"UC8butISFwT-Wl7EV0hUK0BQ", "freeCodeCamp.org", 0.98},
	{"UCvjgXvBlbQiydffZU7m1_aw", "The Coding Train", 0.92},
	{"UCcabW7890RKdqK30bkdFjxw", "Fireship", 0.94},
	{"UCFbNIlppjAuEX4znoulh0Cw", "Web Dev Simplified", 0.90},
}

type Client struct {
	apiKey string
	client *http.Client
}

func NewClient(apiKey string) *Client {
	if apiKey == "" {
		log.Println("YouTube API key not found, using mock search results")
	}
	return &Client{
		apiKey: apiKey,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// Search возвращает кандидатов, отсортированных по убыванию релевантности.
func (c *Client) Search(ctx context.Context, query string, opts SearchOptions) ([]domain.ResourceCandidate, error) {
	if c.apiKey == "" {
		return c.mockSearch(query, opts), nil
	}
	return c.searchAPI(ctx, query, opts)
}

// Ответы YouTube Data API v3 (только нужные поля)
type searchResponse struct {
	Items []struct {
		ID struct {
			VideoID string `json:"videoId"`
		} `json:"id"`
		Snippet snippet `json:"snippet"`
	} `json:"items"`
}

type snippet struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	ChannelID    string   `json:"channelId"`
	ChannelTitle string   `json:"channelTitle"`
	Tags         []string `json:"tags"`
	Thumbnails   struct {
		Medium struct {
			URL string `json:"url"`
		} `json:"medium"`
		Default struct {
			URL string `json:"url"`
		} `json:"default"`
	} `json:"thumbnails"`
}

type videosResponse struct {
	Items []struct {
		ID      string  `json:"id"`
		Snippet snippet `json:"snippet"`
		Statistics struct {
			ViewCount string `json:"viewCount"`
		} `json:"statistics"`
		ContentDetails struct {
			Duration string `json:"duration"`
		} `json:"contentDetails"`
	} `json:"items"`
}

func (c *Client) searchAPI(ctx context.Context, query string, opts SearchOptions) ([]domain.ResourceCandidate, error) {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = 10
	}
	order := opts.Order
	if order == "" {
		order = "relevance"
	}

	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("q", query)
	params.Set("type", "video")
	params.Set("key", c.apiKey)
	params.Set("maxResults", strconv.Itoa(maxResults))
	params.Set("order", order)
	params.Set("safeSearch", "strict")
	params.Set("relevanceLanguage", "en")
	if opts.Duration != "" {
		params.Set("videoDuration", opts.Duration)
	}

	var search searchResponse
	if err := c.get(ctx, baseURL+"/search?"+params.Encode(), &search); err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(search.Items))
	for _, item := range search.Items {
		ids = append(ids, item.ID.VideoID)
	}

	// Вторым запросом добираем статистику и длительность
	detailParams := url.Values{}
	detailParams.Set("part", "statistics,contentDetails,snippet")
	detailParams.Set("id", strings.Join(ids, ","))
	detailParams.Set("key", c.apiKey)

	var details videosResponse
	if err := c.get(ctx, baseURL+"/videos?"+detailParams.Encode(), &details); err != nil {
		return nil, err
	}

	detailByID := make(map[string]int, len(details.Items))
	for i, item := range details.Items {
		detailByID[item.ID] = i
	}

	candidates := make([]domain.ResourceCandidate, 0, len(search.Items))
	for _, item := range search.Items {
		if opts.EducationalOnly && !isEducationalChannel(item.Snippet.ChannelID) {
			continue
		}

		var viewCount int64
		var duration int
		tags := item.Snippet.Tags
		if di, ok := detailByID[item.ID.VideoID]; ok {
			d := details.Items[di]
			viewCount, _ = strconv.ParseInt(d.Statistics.ViewCount, 10, 64)
			duration = ParseISO8601Duration(d.ContentDetails.Duration)
			if len(d.Snippet.Tags) > 0 {
				tags = d.Snippet.Tags
			}
		}

		thumb := item.Snippet.Thumbnails.Medium.URL
		if thumb == "" {
			thumb = item.Snippet.Thumbnails.Default.URL
		}

		candidates = append(candidates, domain.ResourceCandidate{
			ID:             item.ID.VideoID,
			Title:          item.Snippet.Title,
			Description:    item.Snippet.Description,
			URL:            "https://www.youtube.com/watch?v=" + item.ID.VideoID,
			ThumbnailURL:   thumb,
			Duration:       duration,
			Author:         item.Snippet.ChannelTitle,
			ViewCount:      viewCount,
			RelevanceScore: RelevanceScore(item.Snippet.Title, item.Snippet.Description, item.Snippet.ChannelID, viewCount, query),
			IsEducational:  isEducationalChannel(item.Snippet.ChannelID),
			Tags:           tags,
		})
	}

	sortByRelevance(candidates)
	return candidates, nil
}

func (c *Client) get(ctx context.Context, rawURL string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, "GET", rawURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode != 200 {
		return fmt.Errorf("youtube api returned status %d: %s", resp.StatusCode, bodyBytes)
	}

	return json.Unmarshal(bodyBytes, out)
}

// RelevanceScore — взвешенная сумма, зажатая в [0,1]:
// совпадение в заголовке 40%%, в описании 30%%, бонус образовательного
// канала 20%%, нормированные просмотры 10%%.
func RelevanceScore(title, description, channelID string, viewCount int64, query string) float64 {
	score := textRelevance(title, query) * 0.4
	score += textRelevance(description, query) * 0.3

	if quality, ok := channelQuality(channelID); ok {
		score += quality * 0.2
	}

	viewScore := float64(viewCount) / 1000000
	if viewScore > 1 {
		viewScore = 1
	}
	score += viewScore * 0.1

	if score > 1 {
		score = 1
	}
	return score
}

// Доля термов запроса (по пробелам), найденных в тексте как подстроки
func textRelevance(text, query string) float64 {
	if text == "" || query == "" {
		return 0
	}

	textLower := strings.ToLower(text)
	terms := strings.Fields(strings.ToLower(query))
	if len(terms) == 0 {
		return 0
	}

	matches := 0
	for _, term := range terms {
		if strings.Contains(textLower, term) {
			matches++
		}
	}
	return float64(matches) / float64(len(terms))
}

func channelQuality(channelID string) (float64, bool) {
	for _, ch := range educationalChannels {
		if ch.ChannelID == channelID {
			return ch.QualityScore, true
		}
	}
	return 0, false
}

func isEducationalChannel(channelID string) bool {
	_, ok := channelQuality(channelID)
	return ok
}

var iso8601Re = regexp.MustCompile(`PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?`)

// ParseISO8601Duration разбирает формат YouTube PT#H#M#S в секунды
func ParseISO8601Duration(s string) int {
	match := iso8601Re.FindStringSubmatch(s)
	if match == nil {
		return 0
	}

	hours, _ := strconv.Atoi(match[1])
	minutes, _ := strconv.Atoi(match[2])
	seconds, _ := strconv.Atoi(match[3])

	return hours*3600 + minutes*60 + seconds
}

func sortByRelevance(candidates []domain.ResourceCandidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].RelevanceScore > candidates[j].RelevanceScore
	})
}

func (c *Client) mockSearch(query string, opts SearchOptions) []domain.ResourceCandidate {
	mock := []domain.ResourceCandidate{
		{
			ID:             "mock-video-1",
			Title:          query + " - Complete Tutorial",
			Description:    fmt.Sprintf("Learn %s from scratch with this comprehensive tutorial covering all the basics and advanced concepts.", query),
			URL:            "https://www.youtube.com/watch?v=mock-video-1",
			ThumbnailURL:   "https://i.ytimg.com/vi/mock-video-1/mqdefault.jpg",
			Duration:       1800,
			Author:         "Programming with Mosh",
			ViewCount:      250000,
			RelevanceScore: 0.95,
			IsEducational:  true,
			Tags:           []string{strings.ToLower(query), "tutorial", "programming"},
		},
		{
			ID:             "mock-video-2",
			Title:          query + " Explained in 20 Minutes",
			Description:    fmt.Sprintf("Quick and comprehensive explanation of %s concepts with practical examples.", query),
			URL:            "https://www.youtube.com/watch?v=mock-video-2",
			ThumbnailURL:   "https://i.ytimg.com/vi/mock-video-2/mqdefault.jpg",
			Duration:       1200,
			Author:         "freeCodeCamp.org",
			ViewCount:      180000,
			RelevanceScore: 0.92,
			IsEducational:  true,
			Tags:           []string{strings.ToLower(query), "explained", "basics"},
		},
		{
			ID:             "mock-video-3",
			Title:          "Advanced " + query + " Techniques",
			Description:    fmt.Sprintf("Take your %s skills to the next level with these advanced techniques and best practices.", query),
			URL:            "https://www.youtube.com/watch?v=mock-video-3",
			ThumbnailURL:   "https://i.ytimg.com/vi/mock-video-3/mqdefault.jpg",
			Duration:       2400,
			Author:         "Web Dev Simplified",
			ViewCount:      95000,
			RelevanceScore: 0.88,
			IsEducational:  true,
			Tags:           []string{strings.ToLower(query), "advanced", "techniques"},
		},
	}

	if opts.MaxResults > 0 && opts.MaxResults < len(mock) {
		mock = mock[:opts.MaxResults]
	}
	return mock
}
