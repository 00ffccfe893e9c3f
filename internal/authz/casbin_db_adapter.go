package authz

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/casbin/casbin/v2/model"
	"github.com/casbin/casbin/v2/persist"
)

const maxRuleFields = 6

// DatabaseAdapter stores casbin policy lines in the casbin_policies table.
type DatabaseAdapter struct {
	db *sql.DB
}

var _ persist.Adapter = (*DatabaseAdapter)(nil)

// NewDatabaseAdapter creates a DatabaseAdapter over db.
func NewDatabaseAdapter(db *sql.DB) *DatabaseAdapter {
	return &DatabaseAdapter{db: db}
}

// LoadPolicy loads every stored line into m.
func (a *DatabaseAdapter) LoadPolicy(m model.Model) error {
	rows, err := a.db.Query("SELECT ptype, v0, v1, v2, v3, v4, v5 FROM casbin_policies ORDER BY id")
	if err != nil {
		return fmt.Errorf("load policy: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var ptype string
		var v [maxRuleFields]sql.NullString
		if err := rows.Scan(&ptype, &v[0], &v[1], &v[2], &v[3], &v[4], &v[5]); err != nil {
			return fmt.Errorf("load policy: %w", err)
		}

		rule := []string{ptype}
		for _, f := range v {
			if !f.Valid {
				break
			}
			rule = append(rule, f.String)
		}
		if err := persist.LoadPolicyArray(rule, m); err != nil {
			return fmt.Errorf("load policy line %q: %w", strings.Join(rule, ", "), err)
		}
	}
	return rows.Err()
}

// SavePolicy replaces the stored policy with m's p and g sections in one
// transaction.
func (a *DatabaseAdapter) SavePolicy(m model.Model) error {
	tx, err := a.db.Begin()
	if err != nil {
		return fmt.Errorf("save policy: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM casbin_policies"); err != nil {
		return fmt.Errorf("save policy: %w", err)
	}
	for _, sec := range []string{"p", "g"} {
		for ptype, ast := range m[sec] {
			for _, rule := range ast.Policy {
				if _, err := tx.Exec(insertPolicySQL, ruleParams(ptype, rule)...); err != nil {
					return fmt.Errorf("save policy: %w", err)
				}
			}
		}
	}
	return tx.Commit()
}

// AddPolicy stores a single rule.
func (a *DatabaseAdapter) AddPolicy(sec string, ptype string, rule []string) error {
	_, err := a.db.Exec(insertPolicySQL, ruleParams(ptype, rule)...)
	return err
}

// RemovePolicy deletes a single rule.
func (a *DatabaseAdapter) RemovePolicy(sec string, ptype string, rule []string) error {
	return a.deleteWhere(ptype, 0, rule, false)
}

// RemoveFilteredPolicy deletes rules matching the non-empty field values,
// starting at fieldIndex.
func (a *DatabaseAdapter) RemoveFilteredPolicy(sec string, ptype string, fieldIndex int, fieldValues ...string) error {
	return a.deleteWhere(ptype, fieldIndex, fieldValues, true)
}

const insertPolicySQL = "INSERT INTO casbin_policies (ptype, v0, v1, v2, v3, v4, v5) VALUES (?, ?, ?, ?, ?, ?, ?)"

func ruleParams(ptype string, rule []string) []interface{} {
	params := make([]interface{}, maxRuleFields+1)
	params[0] = ptype
	for i := 0; i < len(rule) && i < maxRuleFields; i++ {
		params[i+1] = rule[i]
	}
	return params
}

func (a *DatabaseAdapter) deleteWhere(ptype string, offset int, values []string, skipEmpty bool) error {
	query := "DELETE FROM casbin_policies WHERE ptype = ?"
	params := []interface{}{ptype}
	for i, v := range values {
		if skipEmpty && v == "" {
			continue
		}
		if offset+i >= maxRuleFields {
			break
		}
		query += fmt.Sprintf(" AND v%d = ?", offset+i)
		params = append(params, v)
	}
	_, err := a.db.Exec(query, params...)
	return err
}
