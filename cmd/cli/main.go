// Command librarium is a CLI client for the Librarium service.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/avk-dev/librarium/internal/dataurl"
)

// Advisory upload limits enforced client-side before encoding.
const (
	maxCoverSize = 5 << 20   // 5 MiB
	maxFileSize  = 100 << 20 // 100 MiB
)

// ---- config/token store ----

type tokenFile struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
	UserID      string    `json:"user_id"`
}

func cfgDir() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return filepath.Join(v, "librarium")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "librarium")
}

func tokenPath() string { return filepath.Join(cfgDir(), "token.json") }

func saveToken(tf tokenFile) error {
	_ = os.MkdirAll(cfgDir(), 0o700)
	f, err := os.Create(tokenPath())
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(tf)
}

func loadToken() (tokenFile, error) {
	var tf tokenFile
	b, err := os.ReadFile(tokenPath())
	if err != nil {
		return tf, err
	}
	if err := json.Unmarshal(b, &tf); err != nil {
		return tf, err
	}
	if tf.AccessToken == "" || time.Now().After(tf.ExpiresAt) {
		return tf, errors.New("no valid token (login required)")
	}
	return tf, nil
}

// ---- http ----

type client struct {
	base   string
	bearer string
	http   *http.Client
}

// do posts or gets JSON and decodes the response body into out (if non-nil).
// Non-2xx responses are returned as errors carrying the server's error text.
func (c *client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.bearer != "" {
		req.Header.Set("Authorization", "Bearer "+c.bearer)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(raw, &e) == nil && e.Error != "" {
			return fmt.Errorf("%s (HTTP %d)", e.Error, resp.StatusCode)
		}
		return fmt.Errorf("HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(raw, out)
}

// ---- upload payload ----

type uploadPayload struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category,omitempty"`
	CoverName   string `json:"coverName"`
	CoverData   string `json:"coverData"`
	FileName    string `json:"fileName"`
	FileData    string `json:"fileData"`
	AuthorID    string `json:"authorId,omitempty"`
}

// buildUploadPayload encodes the cover and data file as data URLs after
// checking the advisory size limits.
func buildUploadPayload(title, description, category, coverPath, filePath, authorID string) (*uploadPayload, error) {
	if err := checkSize(coverPath, maxCoverSize, "cover"); err != nil {
		return nil, err
	}
	if err := checkSize(filePath, maxFileSize, "file"); err != nil {
		return nil, err
	}

	coverData, err := dataurl.EncodeFile(coverPath)
	if err != nil {
		return nil, err
	}
	fileData, err := dataurl.EncodeFile(filePath)
	if err != nil {
		return nil, err
	}

	return &uploadPayload{
		Title:       title,
		Description: description,
		Category:    category,
		CoverName:   filepath.Base(coverPath),
		CoverData:   coverData,
		FileName:    filepath.Base(filePath),
		FileData:    fileData,
		AuthorID:    authorID,
	}, nil
}

func checkSize(path string, limit int64, kind string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.Size() > limit {
		return fmt.Errorf("%s %s is %d bytes, limit is %d", kind, path, info.Size(), limit)
	}
	return nil
}

// ---- utils ----

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, "error:", err)
	os.Exit(1)
}

func usage() {
	fmt.Fprintf(os.Stderr, `librarium CLI
Usage:
  librarium -server URL <cmd> [args]

Commands:
  version
  register   -name <name> -email <email> -p <password>
  login      -email <email> -p <password>          (saves token)
  upload     -title <t> -cover <img> -file <doc> [-description d] [-category c] [-author id]
  list
  get        -id <uuid>
  dashboard
`)
	os.Exit(2)
}

// ---- main ----

var (
	version   = "dev"
	buildDate = "unknown"
)

// main dispatches subcommands against the HTTP API.
func main() {
	// global flags
	server := flag.String("server", "http://localhost:8080", "server base URL")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() < 1 {
		usage()
	}
	cmd := flag.Arg(0)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	cli := &client{base: strings.TrimRight(*server, "/"), http: &http.Client{}}
	if tf, err := loadToken(); err == nil {
		cli.bearer = tf.AccessToken
	}

	switch cmd {

	case "version":
		fmt.Printf("librarium %s (%s)\n", version, buildDate)

	case "register":
		fs := flag.NewFlagSet("register", flag.ExitOnError)
		name := fs.String("name", "", "display name")
		email := fs.String("email", "", "email")
		p := fs.String("p", "", "password")
		_ = fs.Parse(flag.Args()[1:])
		if *email == "" || *p == "" {
			fmt.Fprintln(os.Stderr, "need -email and -p")
			os.Exit(1)
		}

		var resp struct {
			OK   bool            `json:"ok"`
			User json.RawMessage `json:"user"`
		}
		if err := cli.do(ctx, http.MethodPost, "/api/auth/register",
			map[string]string{"name": *name, "email": *email, "password": *p}, &resp); err != nil {
			fail(err)
		}
		printJSON(resp.User)

	case "login":
		fs := flag.NewFlagSet("login", flag.ExitOnError)
		email := fs.String("email", "", "email")
		p := fs.String("p", "", "password")
		_ = fs.Parse(flag.Args()[1:])
		if *email == "" || *p == "" {
			fmt.Fprintln(os.Stderr, "need -email and -p")
			os.Exit(1)
		}

		var resp struct {
			OK          bool      `json:"ok"`
			AccessToken string    `json:"accessToken"`
			ExpiresAt   time.Time `json:"expiresAt"`
			User        struct {
				ID string `json:"id"`
			} `json:"user"`
		}
		if err := cli.do(ctx, http.MethodPost, "/api/auth/login",
			map[string]string{"email": *email, "password": *p}, &resp); err != nil {
			fail(err)
		}
		if err := saveToken(tokenFile{
			AccessToken: resp.AccessToken,
			ExpiresAt:   resp.ExpiresAt,
			UserID:      resp.User.ID,
		}); err != nil {
			fail(err)
		}
		fmt.Println("logged in as", resp.User.ID)

	case "upload":
		fs := flag.NewFlagSet("upload", flag.ExitOnError)
		title := fs.String("title", "", "collection title")
		description := fs.String("description", "", "description")
		category := fs.String("category", "", "category")
		cover := fs.String("cover", "", "cover image path")
		file := fs.String("file", "", "data file path")
		author := fs.String("author", "", "author user id (optional)")
		_ = fs.Parse(flag.Args()[1:])
		if *title == "" || *cover == "" || *file == "" {
			fmt.Fprintln(os.Stderr, "need -title, -cover and -file")
			os.Exit(1)
		}

		payload, err := buildUploadPayload(*title, *description, *category, *cover, *file, *author)
		if err != nil {
			fail(err)
		}
		var resp struct {
			OK         bool            `json:"ok"`
			Collection json.RawMessage `json:"collection"`
		}
		if err := cli.do(ctx, http.MethodPost, "/api/collections", payload, &resp); err != nil {
			fail(err)
		}
		printJSON(resp.Collection)

	case "list":
		var resp json.RawMessage
		if err := cli.do(ctx, http.MethodGet, "/api/collections", nil, &resp); err != nil {
			fail(err)
		}
		printJSON(resp)

	case "get":
		fs := flag.NewFlagSet("get", flag.ExitOnError)
		id := fs.String("id", "", "collection id")
		_ = fs.Parse(flag.Args()[1:])
		if *id == "" {
			fmt.Fprintln(os.Stderr, "need -id")
			os.Exit(1)
		}
		var resp json.RawMessage
		if err := cli.do(ctx, http.MethodGet, "/api/collections/"+*id, nil, &resp); err != nil {
			fail(err)
		}
		printJSON(resp)

	case "dashboard":
		var resp json.RawMessage
		if err := cli.do(ctx, http.MethodGet, "/api/dashboard", nil, &resp); err != nil {
			fail(err)
		}
		printJSON(resp)

	default:
		usage()
	}
}
