package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

const (
	defaultPreviewRows = 5
	abbreviateAt       = 100
)

const tablesSQL = `
SELECT tablename AS table_name,
       pg_size_pretty(pg_total_relation_size(format('%I.%I', schemaname, tablename)::regclass)) AS size
FROM pg_tables
WHERE schemaname = current_schema()
ORDER BY tablename`

const schemaSQL = `
SELECT column_name, data_type, is_nullable, column_default
FROM information_schema.columns
WHERE table_schema = current_schema() AND table_name = $1
ORDER BY ordinal_position`

const helpText = `Commands:
  help            show this help
  tables          list tables with their size
  schema <table>  show the columns of a table
  quit | exit     leave the console

Anything else is sent to the database as SQL, for example:
  SELECT * FROM players LIMIT 5;
  SELECT * FROM scores ORDER BY current_total DESC LIMIT 10;

Statements run outside the score ledger: writes to scores or
score_transactions are not balance-checked.`

type Console struct {
	exec        Executor
	out         io.Writer
	previewRows int
	prompt      string
}

func New(exec Executor, out io.Writer, previewRows int, prompt string) *Console {
	if previewRows <= 0 {
		previewRows = defaultPreviewRows
	}
	if prompt == "" {
		prompt = "SQL> "
	}
	return &Console{exec: exec, out: out, previewRows: previewRows, prompt: prompt}
}

// BatchSummary counts statement outcomes of a script run.
type BatchSummary struct {
	Total     int
	Succeeded int
	Failed    int
}

// Exec runs one statement and prints every row it returns.
func (c *Console) Exec(ctx context.Context, sql string) error {
	res, err := c.exec.Execute(ctx, sql)
	if err != nil {
		fmt.Fprintf(c.out, "error: %v\n", err)
		return err
	}
	c.printResult(res, 0)
	return nil
}

// RunScript executes each statement of script in order. A failing statement
// is reported and the run continues with the next one.
func (c *Console) RunScript(ctx context.Context, script string) BatchSummary {
	stmts := SplitStatements(script)
	sum := BatchSummary{Total: len(stmts)}
	for i, stmt := range stmts {
		if ctx.Err() != nil {
			fmt.Fprintf(c.out, "\ninterrupted: %v\n", ctx.Err())
			sum.Failed += len(stmts) - i
			break
		}
		fmt.Fprintf(c.out, "\n[%d/%d] %s\n", i+1, len(stmts), Abbreviate(stmt, abbreviateAt))
		res, err := c.exec.Execute(ctx, stmt)
		if err != nil {
			fmt.Fprintf(c.out, "error: %v\n", err)
			sum.Failed++
			continue
		}
		sum.Succeeded++
		c.printResult(res, c.previewRows)
	}
	fmt.Fprintf(c.out, "\n%d statements: %d succeeded, %d failed\n", sum.Total, sum.Succeeded, sum.Failed)
	return sum
}

// Shell reads commands and statements line by line until quit or EOF.
func (c *Console) Shell(ctx context.Context, in io.Reader) error {
	fmt.Fprintln(c.out, "Type SQL to run it, 'help' for commands, 'quit' to leave.")
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 64*1024), 1<<20)
	for {
		if ctx.Err() != nil {
			return nil
		}
		fmt.Fprint(c.out, c.prompt)
		if !scanner.Scan() {
			fmt.Fprintln(c.out)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		word, arg, _ := strings.Cut(line, " ")
		switch strings.ToLower(strings.TrimSuffix(word, ";")) {
		case "quit", "exit", `\q`:
			return nil
		case "help", `\?`:
			fmt.Fprintln(c.out, helpText)
		case "tables", `\dt`:
			c.showTables(ctx)
		case "schema", `\d`:
			c.showSchema(ctx, strings.TrimSuffix(strings.TrimSpace(arg), ";"))
		default:
			_ = c.Exec(ctx, strings.TrimSuffix(line, ";"))
		}
	}
}

func (c *Console) showTables(ctx context.Context) {
	res, err := c.exec.Execute(ctx, tablesSQL)
	if err != nil {
		fmt.Fprintf(c.out, "error: %v\n", err)
		return
	}
	WriteTable(c.out, res.Columns, res.Rows)
}

func (c *Console) showSchema(ctx context.Context, table string) {
	if table == "" {
		fmt.Fprintln(c.out, "usage: schema <table>")
		return
	}
	res, err := c.exec.Execute(ctx, schemaSQL, table)
	if err != nil {
		fmt.Fprintf(c.out, "error: %v\n", err)
		return
	}
	if len(res.Rows) == 0 {
		fmt.Fprintf(c.out, "no table named %q\n", table)
		return
	}
	fmt.Fprintf(c.out, "table %s:\n", table)
	WriteTable(c.out, res.Columns, res.Rows)
}

// printResult prints a row count and the rows; limit > 0 caps the rows shown.
func (c *Console) printResult(res *Result, limit int) {
	if !res.IsQuery() {
		fmt.Fprintf(c.out, "ok: %s\n", res.Command)
		return
	}
	fmt.Fprintf(c.out, "%d rows\n", len(res.Rows))
	rows := res.Rows
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	WriteTable(c.out, res.Columns, rows)
	if hidden := len(res.Rows) - len(rows); hidden > 0 {
		fmt.Fprintf(c.out, "%s... %d more rows\n", indent, hidden)
	}
}
