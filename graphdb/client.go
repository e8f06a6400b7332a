// Package graphdb wraps the Neo4j driver with the three operations the
// pipeline needs: dry-run validation, execution, and bulk import.
package graphdb

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/pkg/errors"
)

// ValidationError is returned when the store rejects a query during the
// EXPLAIN dry-run. Diagnostic carries the store's own message.
type ValidationError struct {
	Query      string
	Diagnostic string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("query rejected during dry-run: %s", e.Diagnostic)
}

// ExecutionError is returned when the store fails while actually running a
// query that already passed validation.
type ExecutionError struct {
	Query string
	Err   error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("query execution failed: %v", e.Err)
}

func (e *ExecutionError) Unwrap() error { return e.Err }

// Results are capped so a missing LIMIT clause cannot buffer the whole graph.
const maxRows = 5000

type Client struct {
	driver neo4j.DriverWithContext
	dbName string
}

func NewClient(uri, user, password, dbName string) (*Client, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(user, password, ""))
	if err != nil {
		return nil, errors.Wrap(err, "create neo4j driver")
	}
	return &Client{driver: driver, dbName: dbName}, nil
}

// NewClientFromEnv builds a client from NEO4J_URI / NEO4J_USER /
// NEO4J_PASSWORD / NEO4J_DATABASE, with local defaults for development.
func NewClientFromEnv() (*Client, error) {
	uri := os.Getenv("NEO4J_URI")
	if uri == "" {
		uri = "bolt://localhost:7687"
	}
	user := os.Getenv("NEO4J_USER")
	if user == "" {
		user = "neo4j"
	}
	return NewClient(uri, user, os.Getenv("NEO4J_PASSWORD"), os.Getenv("NEO4J_DATABASE"))
}

func (c *Client) Close(ctx context.Context) error {
	return c.driver.Close(ctx)
}

// Ping verifies connectivity, used by the healthcheck endpoint and the
// loader before it starts writing.
func (c *Client) Ping(ctx context.Context) error {
	return c.driver.VerifyConnectivity(ctx)
}

func (c *Client) run(ctx context.Context, query string, params map[string]any) (*neo4j.EagerResult, error) {
	return neo4j.ExecuteQuery(
		ctx,
		c.driver,
		query,
		params,
		neo4j.EagerResultTransformer,
		neo4j.ExecuteQueryWithDatabase(c.dbName),
	)
}

// Validate submits the query through the store's EXPLAIN facility, which
// plans but never runs it. Returns the rendered plan on success and
// *ValidationError with the store diagnostic on rejection. Runs before every
// execution attempt.
func (c *Client) Validate(ctx context.Context, query string) (string, error) {
	result, err := c.run(ctx, "EXPLAIN "+query, nil)
	if err != nil {
		return "", &ValidationError{Query: query, Diagnostic: err.Error()}
	}
	return renderPlanSummary(result.Summary), nil
}

// Execute runs a validated query and returns the rows keyed by the RETURN
// columns, in result order. Store-side failure surfaces as *ExecutionError;
// this layer never retries.
func (c *Client) Execute(ctx context.Context, query string) ([]map[string]any, error) {
	result, err := c.run(ctx, query, nil)
	if err != nil {
		return nil, &ExecutionError{Query: query, Err: err}
	}

	rows := make([]map[string]any, 0, len(result.Records))
	for _, record := range result.Records {
		rows = append(rows, record.AsMap())
		if len(rows) >= maxRows {
			break
		}
	}
	return rows, nil
}

func renderPlanSummary(summary neo4j.ResultSummary) string {
	if summary == nil {
		return ""
	}
	return renderPlan(summary.Plan(), 0)
}

// renderPlan flattens the operator tree into indented lines, enough for the
// orchestration trace without reproducing the store's full plan output.
func renderPlan(plan neo4j.Plan, depth int) string {
	if plan == nil {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s%s\n", strings.Repeat("  ", depth), plan.Operator())
	for _, child := range plan.Children() {
		b.WriteString(renderPlan(child, depth+1))
	}
	return b.String()
}
