package gatewaytest

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/graphql-go/graphql"
	"github.com/graphql-go/graphql/language/ast"
)

func stringScalar(name string) *graphql.Scalar {
	identity := func(v interface{}) interface{} { return v }
	return graphql.NewScalar(graphql.ScalarConfig{
		Name:       name,
		Serialize:  identity,
		ParseValue: identity,
		ParseLiteral: func(valueAST ast.Value) interface{} {
			if v, ok := valueAST.(*ast.StringValue); ok {
				return v.Value
			}
			return nil
		},
	})
}

func (s *Server) buildSchema() (graphql.Schema, error) {
	uuidType := stringScalar("uuid")
	timestamptz := stringScalar("timestamptz")

	orderBy := graphql.NewEnum(graphql.EnumConfig{
		Name: "order_by",
		Values: graphql.EnumValueConfigMap{
			"asc":  &graphql.EnumValueConfig{Value: "asc"},
			"desc": &graphql.EnumValueConfig{Value: "desc"},
		},
	})

	stringComparison := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "String_comparison_exp",
		Fields: graphql.InputObjectConfigFieldMap{
			"_eq": &graphql.InputObjectFieldConfig{Type: graphql.String},
		},
	})
	uuidComparison := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "uuid_comparison_exp",
		Fields: graphql.InputObjectConfigFieldMap{
			"_eq": &graphql.InputObjectFieldConfig{Type: uuidType},
		},
	})
	timestamptzComparison := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "timestamptz_comparison_exp",
		Fields: graphql.InputObjectConfigFieldMap{
			"_eq":      &graphql.InputObjectFieldConfig{Type: timestamptz},
			"_is_null": &graphql.InputObjectFieldConfig{Type: graphql.Boolean},
		},
	})

	profilesBoolExp := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "profiles_bool_exp",
		Fields: graphql.InputObjectConfigFieldMap{
			"id":       &graphql.InputObjectFieldConfig{Type: uuidComparison},
			"name":     &graphql.InputObjectFieldConfig{Type: stringComparison},
			"password": &graphql.InputObjectFieldConfig{Type: stringComparison},
		},
	})
	tasksBoolExp := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "tasks_bool_exp",
		Fields: graphql.InputObjectConfigFieldMap{
			"id":      &graphql.InputObjectFieldConfig{Type: uuidComparison},
			"user_id": &graphql.InputObjectFieldConfig{Type: uuidComparison},
		},
	})
	timeLogsBoolExp := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "time_logs_bool_exp",
		Fields: graphql.InputObjectConfigFieldMap{
			"task_id":  &graphql.InputObjectFieldConfig{Type: uuidComparison},
			"user_id":  &graphql.InputObjectFieldConfig{Type: uuidComparison},
			"end_time": &graphql.InputObjectFieldConfig{Type: timestamptzComparison},
		},
	})

	tasksOrderBy := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "tasks_order_by",
		Fields: graphql.InputObjectConfigFieldMap{
			"created_at": &graphql.InputObjectFieldConfig{Type: orderBy},
		},
	})
	timeLogsOrderBy := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "time_logs_order_by",
		Fields: graphql.InputObjectConfigFieldMap{
			"start_time": &graphql.InputObjectFieldConfig{Type: orderBy},
		},
	})

	tasksInsertInput := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "tasks_insert_input",
		Fields: graphql.InputObjectConfigFieldMap{
			"user_id":     &graphql.InputObjectFieldConfig{Type: uuidType},
			"title":       &graphql.InputObjectFieldConfig{Type: graphql.String},
			"description": &graphql.InputObjectFieldConfig{Type: graphql.String},
			"status":      &graphql.InputObjectFieldConfig{Type: graphql.String},
		},
	})
	tasksSetInput := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "tasks_set_input",
		Fields: graphql.InputObjectConfigFieldMap{
			"title":       &graphql.InputObjectFieldConfig{Type: graphql.String},
			"description": &graphql.InputObjectFieldConfig{Type: graphql.String},
			"status":      &graphql.InputObjectFieldConfig{Type: graphql.String},
		},
	})
	tasksPKColumns := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "tasks_pk_columns_input",
		Fields: graphql.InputObjectConfigFieldMap{
			"id": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(uuidType)},
		},
	})
	timeLogsInsertInput := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "time_logs_insert_input",
		Fields: graphql.InputObjectConfigFieldMap{
			"task_id":    &graphql.InputObjectFieldConfig{Type: uuidType},
			"user_id":    &graphql.InputObjectFieldConfig{Type: uuidType},
			"start_time": &graphql.InputObjectFieldConfig{Type: timestamptz},
			"end_time":   &graphql.InputObjectFieldConfig{Type: timestamptz},
		},
	})
	timeLogsSetInput := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "time_logs_set_input",
		Fields: graphql.InputObjectConfigFieldMap{
			"end_time": &graphql.InputObjectFieldConfig{Type: timestamptz},
		},
	})

	profileType := graphql.NewObject(graphql.ObjectConfig{
		Name: "profiles",
		Fields: graphql.Fields{
			"id":   &graphql.Field{Type: graphql.NewNonNull(uuidType)},
			"name": &graphql.Field{Type: graphql.String},
		},
	})

	timeLogType := graphql.NewObject(graphql.ObjectConfig{
		Name: "time_logs",
		Fields: graphql.Fields{
			"id":         &graphql.Field{Type: graphql.NewNonNull(uuidType)},
			"task_id":    &graphql.Field{Type: uuidType},
			"user_id":    &graphql.Field{Type: uuidType},
			"start_time": &graphql.Field{Type: timestamptz},
			"end_time":   &graphql.Field{Type: timestamptz},
			"duration": &graphql.Field{
				Type: graphql.Int,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return durationSeconds(p.Source.(row)), nil
				},
			},
		},
	})

	taskType := graphql.NewObject(graphql.ObjectConfig{
		Name: "tasks",
		Fields: graphql.Fields{
			"id":          &graphql.Field{Type: graphql.NewNonNull(uuidType)},
			"user_id":     &graphql.Field{Type: uuidType},
			"title":       &graphql.Field{Type: graphql.String},
			"description": &graphql.Field{Type: graphql.String},
			"status":      &graphql.Field{Type: graphql.String},
			"created_at":  &graphql.Field{Type: timestamptz},
			"updated_at":  &graphql.Field{Type: timestamptz},
			"time_logs": &graphql.Field{
				Type: graphql.NewList(timeLogType),
				Args: graphql.FieldConfigArgument{
					"order_by": &graphql.ArgumentConfig{Type: timeLogsOrderBy},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					taskID := p.Source.(row)["id"]
					logs := []row{}
					for _, l := range s.timeLogs {
						if l["task_id"] == taskID {
							logs = append(logs, l)
						}
					}
					sortRows(logs, "start_time", direction(p.Args["order_by"], "start_time"))
					return logs, nil
				},
			},
		},
	})

	mutationResponse := graphql.NewObject(graphql.ObjectConfig{
		Name: "time_logs_mutation_response",
		Fields: graphql.Fields{
			"affected_rows": &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		},
	})

	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "query_root",
		Fields: graphql.Fields{
			"profiles": &graphql.Field{
				Type: graphql.NewList(profileType),
				Args: graphql.FieldConfigArgument{
					"where": &graphql.ArgumentConfig{Type: profilesBoolExp},
					"limit": &graphql.ArgumentConfig{Type: graphql.Int},
				},
				Resolve: s.resolveProfiles,
			},
			"tasks": &graphql.Field{
				Type: graphql.NewList(taskType),
				Args: graphql.FieldConfigArgument{
					"where":    &graphql.ArgumentConfig{Type: tasksBoolExp},
					"order_by": &graphql.ArgumentConfig{Type: tasksOrderBy},
				},
				Resolve: s.resolveTasks,
			},
		},
	})

	mutation := graphql.NewObject(graphql.ObjectConfig{
		Name: "mutation_root",
		Fields: graphql.Fields{
			"insert_tasks_one": &graphql.Field{
				Type: taskType,
				Args: graphql.FieldConfigArgument{
					"object": &graphql.ArgumentConfig{Type: graphql.NewNonNull(tasksInsertInput)},
				},
				Resolve: s.resolveInsertTask,
			},
			"update_tasks_by_pk": &graphql.Field{
				Type: taskType,
				Args: graphql.FieldConfigArgument{
					"pk_columns": &graphql.ArgumentConfig{Type: graphql.NewNonNull(tasksPKColumns)},
					"_set":       &graphql.ArgumentConfig{Type: tasksSetInput},
				},
				Resolve: s.resolveUpdateTask,
			},
			"delete_tasks_by_pk": &graphql.Field{
				Type: taskType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(uuidType)},
				},
				Resolve: s.resolveDeleteTask,
			},
			"insert_time_logs_one": &graphql.Field{
				Type: timeLogType,
				Args: graphql.FieldConfigArgument{
					"object": &graphql.ArgumentConfig{Type: graphql.NewNonNull(timeLogsInsertInput)},
				},
				Resolve: s.resolveInsertTimeLog,
			},
			"update_time_logs": &graphql.Field{
				Type: mutationResponse,
				Args: graphql.FieldConfigArgument{
					"where": &graphql.ArgumentConfig{Type: graphql.NewNonNull(timeLogsBoolExp)},
					"_set":  &graphql.ArgumentConfig{Type: timeLogsSetInput},
				},
				Resolve: s.resolveUpdateTimeLogs,
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query:    query,
		Mutation: mutation,
	})
}

func (s *Server) resolveProfiles(p graphql.ResolveParams) (interface{}, error) {
	where, _ := p.Args["where"].(map[string]interface{})
	out := []row{}
	for _, profile := range s.profiles {
		if !matches(where, "name", profile["name"]) || !matches(where, "password", profile["password"]) || !matches(where, "id", profile["id"]) {
			continue
		}
		out = append(out, profile)
	}
	if limit, ok := p.Args["limit"].(int); ok && limit >= 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Server) resolveTasks(p graphql.ResolveParams) (interface{}, error) {
	where, _ := p.Args["where"].(map[string]interface{})
	out := []row{}
	for _, t := range s.tasks {
		if matches(where, "user_id", t["user_id"]) && matches(where, "id", t["id"]) {
			out = append(out, t)
		}
	}
	sortRows(out, "created_at", direction(p.Args["order_by"], "created_at"))
	return out, nil
}

func (s *Server) resolveInsertTask(p graphql.ResolveParams) (interface{}, error) {
	object := p.Args["object"].(map[string]interface{})
	userID, _ := object["user_id"].(string)
	title, _ := object["title"].(string)
	if userID == "" || title == "" {
		return nil, fmt.Errorf(`Not-NULL violation. null value in column "title" violates not-null constraint`)
	}
	t := s.insertTask(userID, title, object["description"])
	if status, ok := object["status"].(string); ok {
		t["status"] = status
	}
	return t, nil
}

func (s *Server) resolveUpdateTask(p graphql.ResolveParams) (interface{}, error) {
	pk := p.Args["pk_columns"].(map[string]interface{})
	set, _ := p.Args["_set"].(map[string]interface{})
	for _, t := range s.tasks {
		if t["id"] != pk["id"] {
			continue
		}
		for k, v := range set {
			t[k] = v
		}
		t["updated_at"] = s.tick()
		return t, nil
	}
	return nil, nil
}

func (s *Server) resolveDeleteTask(p graphql.ResolveParams) (interface{}, error) {
	id := p.Args["id"]
	for i, t := range s.tasks {
		if t["id"] != id {
			continue
		}
		s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
		kept := s.timeLogs[:0]
		for _, l := range s.timeLogs {
			if l["task_id"] != id {
				kept = append(kept, l)
			}
		}
		s.timeLogs = kept
		return t, nil
	}
	return nil, nil
}

func (s *Server) resolveInsertTimeLog(p graphql.ResolveParams) (interface{}, error) {
	object := p.Args["object"].(map[string]interface{})
	taskID := object["task_id"]
	found := false
	for _, t := range s.tasks {
		if t["id"] == taskID {
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf(`Foreign key violation. insert or update on table "time_logs" violates foreign key constraint "time_logs_task_id_fkey"`)
	}
	l := row{
		"id":         uuid.NewString(),
		"task_id":    taskID,
		"user_id":    object["user_id"],
		"start_time": object["start_time"],
		"end_time":   object["end_time"],
	}
	s.timeLogs = append(s.timeLogs, l)
	return l, nil
}

func (s *Server) resolveUpdateTimeLogs(p graphql.ResolveParams) (interface{}, error) {
	where := p.Args["where"].(map[string]interface{})
	set, _ := p.Args["_set"].(map[string]interface{})
	affected := 0
	for _, l := range s.timeLogs {
		if !matches(where, "task_id", l["task_id"]) || !matches(where, "user_id", l["user_id"]) {
			continue
		}
		if cmp, ok := where["end_time"].(map[string]interface{}); ok {
			if isNull, ok := cmp["_is_null"].(bool); ok && isNull != (l["end_time"] == nil) {
				continue
			}
		}
		for k, v := range set {
			l[k] = v
		}
		affected++
	}
	return row{"affected_rows": affected}, nil
}

// matches applies a {field: {_eq: value}} predicate. Missing predicates match.
func matches(where map[string]interface{}, field string, value interface{}) bool {
	cmp, ok := where[field].(map[string]interface{})
	if !ok {
		return true
	}
	want, ok := cmp["_eq"]
	if !ok {
		return true
	}
	return want == value
}

func direction(orderBy interface{}, field string) string {
	m, ok := orderBy.(map[string]interface{})
	if !ok {
		return ""
	}
	dir, _ := m[field].(string)
	return dir
}

// sortRows orders by a timestamp column. Timestamps share one layout, so a
// string comparison is chronological.
func sortRows(rows []row, field, dir string) {
	if dir == "" {
		return
	}
	sort.SliceStable(rows, func(i, j int) bool {
		a, _ := rows[i][field].(string)
		b, _ := rows[j][field].(string)
		if dir == "desc" {
			return a > b
		}
		return a < b
	})
}

func durationSeconds(l row) interface{} {
	start, ok1 := l["start_time"].(string)
	end, ok2 := l["end_time"].(string)
	if !ok1 || !ok2 {
		return nil
	}
	st, err1 := time.Parse(time.RFC3339, start)
	et, err2 := time.Parse(time.RFC3339, end)
	if err1 != nil || err2 != nil {
		return nil
	}
	return int(et.Sub(st).Seconds())
}
