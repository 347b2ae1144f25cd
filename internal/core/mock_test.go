package core

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

type executedQuery struct {
	Query  string
	Params map[string]interface{}
}

// MockDriver records executed queries and answers them through Handler when
// set, or with MockResult otherwise.
type MockDriver struct {
	Executed   []executedQuery
	Handler    func(query string, params map[string]interface{}) (neo4j.EagerResult, error)
	MockResult neo4j.EagerResult
	Err        error
}

func (m *MockDriver) ExecuteQuery(ctx context.Context, query string, params map[string]interface{}) (neo4j.EagerResult, error) {
	m.Executed = append(m.Executed, executedQuery{Query: query, Params: params})
	if m.Err != nil {
		return neo4j.EagerResult{}, m.Err
	}
	if m.Handler != nil {
		return m.Handler(query, params)
	}
	return m.MockResult, nil
}

func (m *MockDriver) BuildIndices(ctx context.Context) error {
	return nil
}

func (m *MockDriver) Close(ctx context.Context) error {
	return nil
}

func contactRecord(props map[string]interface{}) *neo4j.Record {
	return &neo4j.Record{
		Keys:   []string{"c"},
		Values: []interface{}{neo4j.Node{Props: props}},
	}
}

func record(keys []string, values []interface{}) *neo4j.Record {
	return &neo4j.Record{Keys: keys, Values: values}
}
