//go:build e2e

package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/cloo-solutions/vitrine/internal/testutil"
)

const s3Bucket = "vitrine-e2e"

// E2ETestEnv holds the containers, binaries and running server of one test
type E2ETestEnv struct {
	T          *testing.T
	Ctx        context.Context
	PostgresC  *testutil.PostgresContainer
	RedisC     *testutil.RedisContainer
	RustFSC    *testutil.RustFSContainer
	BinaryDir  string
	DataDir    string
	ServerURL  string
	HTTPClient *http.Client

	server *exec.Cmd
	logs   bytes.Buffer
}

// SetupE2EEnv starts every backing service, builds the binaries and pushes the sample catalog.
// The server itself is started by StartServer so tests can choose its flags.
func SetupE2EEnv(t *testing.T) *E2ETestEnv {
	ctx := context.Background()

	env := &E2ETestEnv{
		T:          t,
		Ctx:        ctx,
		PostgresC:  testutil.NewPostgresContainer(ctx, t),
		RedisC:     testutil.NewRedisContainer(ctx, t),
		RustFSC:    testutil.NewRustFSContainer(ctx, t),
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}

	dataDir, err := filepath.Abs("../../data")
	if err != nil {
		t.Fatalf("failed to resolve data dir: %v", err)
	}
	env.DataDir = dataDir

	env.BuildBinaries()

	if out, err := env.RunDaemon("push-catalog", "--data-dir", env.DataDir); err != nil {
		env.Cleanup()
		t.Fatalf("push-catalog failed: %v\n%s", err, out)
	}

	return env
}

// Cleanup releases all resources
func (e *E2ETestEnv) Cleanup() {
	e.StopServer()
	if e.RustFSC != nil {
		e.RustFSC.Terminate(e.Ctx)
	}
	if e.RedisC != nil {
		e.RedisC.Terminate(e.Ctx)
	}
	if e.PostgresC != nil {
		e.PostgresC.Terminate(e.Ctx)
	}
	if e.BinaryDir != "" {
		os.RemoveAll(e.BinaryDir)
	}
}

// BuildBinaries builds the vitrine and vitrined binaries
func (e *E2ETestEnv) BuildBinaries() {
	tmpDir, err := os.MkdirTemp("", "vitrine-e2e-*")
	if err != nil {
		e.T.Fatalf("failed to create temp dir: %v", err)
	}
	e.BinaryDir = tmpDir

	for _, name := range []string{"vitrined", "vitrine"} {
		cmd := exec.Command("go", "build", "-o", filepath.Join(tmpDir, name), "./cmd/"+name)
		cmd.Dir = "../.."
		if out, err := cmd.CombinedOutput(); err != nil {
			e.T.Fatalf("failed to build %s: %v\n%s", name, err, out)
		}
	}
}

// daemonEnv points vitrined at the containers. No OpenAI key is set, so the
// offline hashing embedder is used and generation is unavailable.
func (e *E2ETestEnv) daemonEnv() []string {
	migrations, _ := filepath.Abs("../../migrations")
	return append(os.Environ(),
		"VITRINE_OPENAI_API_KEY=",
		"VITRINE_SENTRY_DSN=",
		"VITRINE_LOG_LEVEL=warn",
		"VITRINE_DATABASE_URL="+e.PostgresC.ConnectionString(),
		"VITRINE_MIGRATIONS_DIR="+migrations,
		"VITRINE_REDIS_ADDR="+e.RedisC.Addr(),
		"VITRINE_S3_ENDPOINT="+e.RustFSC.Endpoint(),
		"VITRINE_S3_ACCESS_KEY_ID="+testutil.RustFSAccessKey,
		"VITRINE_S3_SECRET_ACCESS_KEY="+testutil.RustFSSecretKey,
		"VITRINE_S3_BUCKET="+s3Bucket,
		"VITRINE_STATIC_DIR=",
	)
}

// RunDaemon runs a short-lived vitrined command
func (e *E2ETestEnv) RunDaemon(args ...string) (string, error) {
	cmd := exec.Command(filepath.Join(e.BinaryDir, "vitrined"), args...)
	cmd.Env = e.daemonEnv()
	out, err := cmd.CombinedOutput()
	return string(out), err
}

// StartServer launches vitrined serve on a free port and waits for /health.
func (e *E2ETestEnv) StartServer(extraArgs ...string) {
	port, err := getFreePort()
	if err != nil {
		e.T.Fatalf("failed to get free port: %v", err)
	}

	args := append([]string{"serve", "--port", fmt.Sprint(port)}, extraArgs...)
	cmd := exec.Command(filepath.Join(e.BinaryDir, "vitrined"), args...)
	cmd.Env = e.daemonEnv()
	cmd.Stdout = &e.logs
	cmd.Stderr = &e.logs
	if err := cmd.Start(); err != nil {
		e.T.Fatalf("failed to start vitrined: %v", err)
	}
	e.server = cmd
	e.ServerURL = fmt.Sprintf("http://127.0.0.1:%d", port)

	if err := waitForServer(e.ServerURL, 60*time.Second); err != nil {
		e.StopServer()
		e.T.Fatalf("%v\nserver output:\n%s", err, e.logs.String())
	}
}

// StopServer interrupts the running server and waits for it to exit.
func (e *E2ETestEnv) StopServer() {
	if e.server == nil || e.server.Process == nil {
		return
	}
	_ = e.server.Process.Signal(os.Interrupt)
	done := make(chan struct{})
	go func() {
		_ = e.server.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(35 * time.Second):
		_ = e.server.Process.Kill()
		<-done
	}
	e.server = nil
}

// RunVitrine runs the client CLI against the running server
func (e *E2ETestEnv) RunVitrine(args ...string) (string, error) {
	return e.RunVitrineWithInput("", args...)
}

// RunVitrineWithInput runs the client CLI with stdin input
func (e *E2ETestEnv) RunVitrineWithInput(input string, args ...string) (string, error) {
	cmd := exec.Command(filepath.Join(e.BinaryDir, "vitrine"), args...)
	cmd.Dir = e.BinaryDir
	cmd.Stdin = bytes.NewReader([]byte(input))
	cmd.Env = append(os.Environ(),
		"VITRINE_API_URL="+e.ServerURL,
		"XDG_CONFIG_HOME="+e.BinaryDir,
	)
	out, err := cmd.CombinedOutput()
	return string(out), err
}

// HTTPResult is a raw response: status plus body.
type HTTPResult struct {
	StatusCode int
	Body       []byte
}

// Decode unmarshals the body into out.
func (r *HTTPResult) Decode(out interface{}) error {
	return json.Unmarshal(r.Body, out)
}

// Get performs a GET request
func (e *E2ETestEnv) Get(path string) (*HTTPResult, error) {
	return e.doRequest(http.MethodGet, path, nil)
}

// Post performs a POST request
func (e *E2ETestEnv) Post(path string, body interface{}) (*HTTPResult, error) {
	return e.doRequest(http.MethodPost, path, body)
}

// Delete performs a DELETE request
func (e *E2ETestEnv) Delete(path string) (*HTTPResult, error) {
	return e.doRequest(http.MethodDelete, path, nil)
}

func (e *E2ETestEnv) doRequest(method, path string, body interface{}) (*HTTPResult, error) {
	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal body: %w", err)
		}
		reqBody = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequest(method, e.ServerURL+path, reqBody)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	return &HTTPResult{StatusCode: resp.StatusCode, Body: respBody}, nil
}

func waitForServer(url string, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		resp, err := http.Get(url + "/health")
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}
		time.Sleep(200 * time.Millisecond)
	}
	return fmt.Errorf("server did not become healthy within %v", timeout)
}

func getFreePort() (int, error) {
	addr, err := net.ResolveTCPAddr("tcp", "localhost:0")
	if err != nil {
		return 0, err
	}

	l, err := net.ListenTCP("tcp", addr)
	if err != nil {
		return 0, err
	}
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port, nil
}
