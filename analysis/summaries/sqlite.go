// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package summaries

import (
	"fmt"

	"github.com/awslabs/lineage-tools/analysis/lineage"
	"github.com/awslabs/lineage-tools/internal/funcutil"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

// SQLiteStore reads summaries from a SQLite database produced by the
// summary pipeline. The store never writes: summaries are inputs. The
// expected schema is
//
//	procedures(module, name, arity, description, deps_complete)
//	dependencies(owner_module, owner_name, owner_arity, dep_module, dep_name, dep_arity)
//	shapes(module, name, arity, base, callee, idx, prefix, refined)
//	edges(module, name, arity, src, dst, kind, callee)
//
// with vertices in the JSON form of [EncodeVertex] and callees in
// [module:]function/arity syntax. Row order in dependencies and edges is
// meaningful: it fixes the iteration order of the engines.
type SQLiteStore struct {
	conn *sqlite.Conn
}

// Open opens a summary database read-only.
func Open(path string) (*SQLiteStore, error) {
	conn, err := sqlite.OpenConn(path, sqlite.OpenReadOnly)
	if err != nil {
		return nil, fmt.Errorf("could not open summary store %s: %w", path, err)
	}
	return &SQLiteStore{conn: conn}, nil
}

// Close releases the database connection.
func (s *SQLiteStore) Close() error {
	return s.conn.Close()
}

// Load reads the full summary of p: dependency set, shape payload and
// lineage graph. It returns nil with no error when p has no procedures
// row.
func (s *SQLiteStore) Load(p lineage.ProcID) (*lineage.Summary, error) {
	found := false
	sum := &lineage.Summary{}
	err := sqlitex.Execute(s.conn,
		`SELECT deps_complete FROM procedures WHERE module = ? AND name = ? AND arity = ?`,
		&sqlitex.ExecOptions{
			Args: []any{p.Module, p.Name, p.Arity},
			ResultFunc: func(stmt *sqlite.Stmt) error {
				found = true
				sum.Deps.Complete = stmt.ColumnInt64(0) != 0
				return nil
			},
		})
	if err != nil {
		return nil, fmt.Errorf("could not load %s: %w", p, err)
	}
	if !found {
		return nil, nil
	}

	if err := s.loadDeps(p, sum); err != nil {
		return nil, err
	}
	if err := s.loadShape(p, sum); err != nil {
		return nil, err
	}
	if err := s.loadGraph(p, sum); err != nil {
		return nil, err
	}
	return sum, nil
}

func (s *SQLiteStore) loadDeps(p lineage.ProcID, sum *lineage.Summary) error {
	return sqlitex.Execute(s.conn,
		`SELECT dep_module, dep_name, dep_arity FROM dependencies
		 WHERE owner_module = ? AND owner_name = ? AND owner_arity = ?
		 ORDER BY rowid`,
		&sqlitex.ExecOptions{
			Args: []any{p.Module, p.Name, p.Arity},
			ResultFunc: func(stmt *sqlite.Stmt) error {
				sum.Deps.Procs = append(sum.Deps.Procs, lineage.ProcID{
					Module: stmt.ColumnText(0),
					Name:   stmt.ColumnText(1),
					Arity:  int(stmt.ColumnInt64(2)),
				})
				return nil
			},
		})
}

func (s *SQLiteStore) loadShape(p lineage.ProcID, sum *lineage.Summary) error {
	var shape *lineage.Shape
	err := sqlitex.Execute(s.conn,
		`SELECT base, callee, idx, prefix, refined FROM shapes
		 WHERE module = ? AND name = ? AND arity = ?
		 ORDER BY rowid`,
		&sqlitex.ExecOptions{
			Args: []any{p.Module, p.Name, p.Arity},
			ResultFunc: func(stmt *sqlite.Stmt) error {
				if shape == nil {
					shape = lineage.NewShape()
				}
				base := stmt.ColumnText(0)
				calleeTxt := stmt.ColumnText(1)
				idx := int(stmt.ColumnInt64(2))
				prefix := lineage.FieldPath(stmt.ColumnText(3))
				refined := lineage.FieldPath(stmt.ColumnText(4))
				switch base {
				case "ret":
					shape.AddReturn(prefix, refined)
				case "arg":
					shape.AddArgument(idx, prefix, refined)
				case "ret_of":
					callee, err := lineage.ParseProc(calleeTxt)
					if err != nil {
						return fmt.Errorf("bad shape callee for %s: %w", p, err)
					}
					shape.AddReturnOf(callee, prefix, refined)
				case "arg_of":
					callee, err := lineage.ParseProc(calleeTxt)
					if err != nil {
						return fmt.Errorf("bad shape callee for %s: %w", p, err)
					}
					shape.AddArgumentOf(callee, idx, prefix, refined)
				default:
					return fmt.Errorf("unknown shape base %q for %s", base, p)
				}
				return nil
			},
		})
	if err != nil {
		return err
	}
	sum.Shape = shape
	return nil
}

func (s *SQLiteStore) loadGraph(p lineage.ProcID, sum *lineage.Summary) error {
	var g *lineage.Graph
	err := sqlitex.Execute(s.conn,
		`SELECT src, dst, kind, callee FROM edges
		 WHERE module = ? AND name = ? AND arity = ?
		 ORDER BY rowid`,
		&sqlitex.ExecOptions{
			Args: []any{p.Module, p.Name, p.Arity},
			ResultFunc: func(stmt *sqlite.Stmt) error {
				if g == nil {
					g = lineage.NewGraph()
				}
				src, err := DecodeVertex(stmt.ColumnText(0))
				if err != nil {
					return err
				}
				dst, err := DecodeVertex(stmt.ColumnText(1))
				if err != nil {
					return err
				}
				kind, err := DecodeKind(stmt.ColumnText(2), stmt.ColumnText(3))
				if err != nil {
					return err
				}
				g.AddEdge(lineage.Edge{Src: src, Dst: dst, Kind: kind})
				return nil
			},
		})
	if err != nil {
		return err
	}
	sum.Graph = g
	return nil
}

// Iterate visits every procedures row once, with its dependency set, in
// (module, name, arity) order.
func (s *SQLiteStore) Iterate(fn func(owner lineage.ProcID, deps lineage.DepSet) error) error {
	type row struct {
		proc     lineage.ProcID
		complete bool
	}
	var rows []row
	err := sqlitex.Execute(s.conn,
		`SELECT module, name, arity, deps_complete FROM procedures ORDER BY module, name, arity`,
		&sqlitex.ExecOptions{
			ResultFunc: func(stmt *sqlite.Stmt) error {
				rows = append(rows, row{
					proc: lineage.ProcID{
						Module: stmt.ColumnText(0),
						Name:   stmt.ColumnText(1),
						Arity:  int(stmt.ColumnInt64(2)),
					},
					complete: stmt.ColumnInt64(3) != 0,
				})
				return nil
			},
		})
	if err != nil {
		return fmt.Errorf("could not iterate summary store: %w", err)
	}
	for _, r := range rows {
		deps := lineage.DepSet{Complete: r.complete}
		sum := &lineage.Summary{Deps: deps}
		if err := s.loadDeps(r.proc, sum); err != nil {
			return err
		}
		deps.Procs = sum.Deps.Procs
		if err := fn(r.proc, deps); err != nil {
			return err
		}
	}
	return nil
}

// Resolve returns the description column of p.
func (s *SQLiteStore) Resolve(p lineage.ProcID) funcutil.Optional[string] {
	desc := funcutil.None[string]()
	err := sqlitex.Execute(s.conn,
		`SELECT description FROM procedures WHERE module = ? AND name = ? AND arity = ?`,
		&sqlitex.ExecOptions{
			Args: []any{p.Module, p.Name, p.Arity},
			ResultFunc: func(stmt *sqlite.Stmt) error {
				if stmt.ColumnType(0) != sqlite.TypeNull && stmt.ColumnText(0) != "" {
					desc = funcutil.Some(stmt.ColumnText(0))
				}
				return nil
			},
		})
	if err != nil {
		return funcutil.None[string]()
	}
	return desc
}
