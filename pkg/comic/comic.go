// Package comic retrieves random xkcd comics and their images.
package comic

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/xkcdlock/xkcdlock/internal/fault"
	"github.com/xkcdlock/xkcdlock/pkg/utils"
)

// DefaultBaseURL is the xkcd JSON API root.
const DefaultBaseURL = "https://xkcd.com"

// missingComic is the number xkcd never published.
const missingComic = 404

// Comic is the metadata of a single comic.
type Comic struct {
	Num   int    `json:"num"`
	Title string `json:"title"`
	Img   string `json:"img"`
	Alt   string `json:"alt"`
}

// FileStem returns "NNNN - Title" with the title reduced to file-name-safe characters.
func (c Comic) FileStem() string {
	return fmt.Sprintf("%04d - %s", c.Num, utils.SafePath(c.Title))
}

// RawImage is a downloaded comic image on disk.
type RawImage struct {
	Comic Comic
	Path  string
}

// Options configures a Client.
type Options struct {
	BaseURL    string
	HTTPClient *http.Client
	Timeout    time.Duration // used only when HTTPClient is nil, 0 means none
	Dir        string        // where downloads go, defaults to os.TempDir()
	Logger     *zerolog.Logger
	Intn       func(n int) int // returns a number in [0, n), defaults to math/rand/v2
}

// Client talks to the comic JSON API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	dir        string
	logger     zerolog.Logger
	intn       func(n int) int
}

// NewClient constructs a client with defaults for unset options.
func NewClient(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}
	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	dir := opts.Dir
	if dir == "" {
		dir = os.TempDir()
	}
	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = *opts.Logger
	}
	intn := opts.Intn
	if intn == nil {
		intn = rand.IntN
	}

	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		dir:        dir,
		logger:     logger,
		intn:       intn,
	}
}

// Latest returns the most recent comic.
func (c *Client) Latest(ctx context.Context) (Comic, error) {
	return c.fetch(ctx, c.baseURL+"/info.0.json")
}

// Get returns the comic with the given number.
func (c *Client) Get(ctx context.Context, num int) (Comic, error) {
	return c.fetch(ctx, fmt.Sprintf("%s/%d/info.0.json", c.baseURL, num))
}

// FetchRandom returns a uniformly chosen published comic.
func (c *Client) FetchRandom(ctx context.Context) (Comic, error) {
	latest, err := c.Latest(ctx)
	if err != nil {
		return Comic{}, err
	}

	num, err := pickNumber(latest.Num, c.intn)
	if err != nil {
		return Comic{}, err
	}

	c.logger.Debug().Int("latest", latest.Num).Int("num", num).Msg("picked random comic")

	if num == latest.Num {
		return latest, nil
	}
	return c.Get(ctx, num)
}

// pickNumber draws from [1, latest] without the unpublished comic.
func pickNumber(latest int, intn func(int) int) (int, error) {
	if latest < 1 {
		return 0, fault.Newf(fault.Remote, "latest comic number %d is not valid", latest)
	}
	if latest < missingComic {
		return intn(latest) + 1, nil
	}

	num := intn(latest-1) + 1
	if num >= missingComic {
		num++
	}
	return num, nil
}

func (c *Client) fetch(ctx context.Context, endpoint string) (Comic, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Comic{}, fault.Wrapf(fault.Remote, err, "build request for %s", endpoint)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Comic{}, fault.Wrapf(fault.Remote, err, "fetch %s", endpoint)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return Comic{}, fault.Newf(fault.Remote, "fetch %s: status %d", endpoint, resp.StatusCode)
	}

	var comic Comic
	if err := json.NewDecoder(resp.Body).Decode(&comic); err != nil {
		return Comic{}, fault.Wrapf(fault.Remote, err, "decode comic metadata from %s", endpoint)
	}

	c.logger.Debug().
		Int("num", comic.Num).
		Str("title", comic.Title).
		Str("img", comic.Img).
		Msg("fetched comic metadata")
	return comic, nil
}

// Download stores the comic's image in a fresh temporary file.
func (c *Client) Download(ctx context.Context, comic Comic) (RawImage, error) {
	parsed, err := url.Parse(strings.TrimSpace(comic.Img))
	if err != nil || parsed.Scheme == "" {
		return RawImage{}, fault.Newf(fault.Remote, "comic %d has no valid image url: %q", comic.Num, comic.Img)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, parsed.String(), nil)
	if err != nil {
		return RawImage{}, fault.Wrap(fault.Remote, err, "build download request")
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return RawImage{}, fault.Wrapf(fault.Remote, err, "download %s", parsed)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return RawImage{}, fault.Newf(fault.Remote, "download %s: status %d", parsed, resp.StatusCode)
	}

	ext := path.Ext(parsed.Path)
	if ext == "" {
		ext = ".png"
	}

	f, err := os.CreateTemp(c.dir, comic.FileStem()+"-*"+ext)
	if err != nil {
		return RawImage{}, fault.Wrap(fault.IO, err, "create download file")
	}

	dst := &fileWriter{w: f}
	if _, err := io.Copy(dst, resp.Body); err != nil {
		f.Close()
		os.Remove(f.Name())
		if dst.err != nil {
			return RawImage{}, fault.Wrap(fault.IO, err, "write download file")
		}
		return RawImage{}, fault.Wrapf(fault.Remote, err, "read image %s", parsed)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return RawImage{}, fault.Wrap(fault.IO, err, "write download file")
	}

	c.logger.Debug().Str("path", f.Name()).Msg("downloaded comic image")
	return RawImage{Comic: comic, Path: f.Name()}, nil
}

// fileWriter remembers write failures so a copy error can be told apart from a read error.
type fileWriter struct {
	w   io.Writer
	err error
}

func (fw *fileWriter) Write(p []byte) (int, error) {
	n, err := fw.w.Write(p)
	switch {
	case err != nil:
		fw.err = err
	case n < len(p):
		fw.err = io.ErrShortWrite
	}
	return n, err
}
