// Package checks defines the fixed Oracle CIS check registry.
package checks

import "github.com/ppiankov/oraspectre/internal/models"

// Registry is the ordered list of checks executed on every audit, pure data.
// IDs, descriptions, queries, risk ratings, fix types and remediation text
// are fixed; report output depends on them verbatim.
var Registry = []models.CheckDefinition{
	{
		ID:          "1.1",
		Description: "Ensure auditing is enabled",
		Query:       "SELECT value FROM v$parameter WHERE name = 'audit_trail'",
		Risk:        models.RiskHigh,
		FixType:     models.FixQuick,
		Remediation: "Set 'audit_trail=DB,EXTENDED' in init.ora or spfile",
	},
	{
		ID:          "2.1",
		Description: "Password complexity enforced",
		Query:       "SELECT profile, resource_name, limit FROM dba_profiles WHERE resource_name = 'PASSWORD_VERIFY_FUNCTION'",
		Risk:        models.RiskMedium,
		FixType:     models.FixPlanned,
		Remediation: "Assign strong password functions to user profiles",
	},
	{
		ID:          "3.1",
		Description: "DBA role misuse",
		Query:       "SELECT grantee FROM dba_role_privs WHERE granted_role = 'DBA'",
		Risk:        models.RiskHigh,
		FixType:     models.FixInvolved,
		Remediation: "Limit DBA role assignment to only authorized users",
	},
	{
		ID:          "4.1",
		Description: "Failed login audit",
		Query:       "SELECT username, timestamp, returncode FROM dba_audit_session WHERE returncode != 0 AND ROWNUM <= 5",
		Risk:        models.RiskMedium,
		FixType:     models.FixQuick,
		Remediation: "Enable audit for session logon failures",
	},
	{
		ID:          "5.1",
		Description: "Default user accounts",
		Query:       "SELECT username, account_status FROM dba_users WHERE username IN ('SCOTT','HR','OUTLN')",
		Risk:        models.RiskLow,
		FixType:     models.FixQuick,
		Remediation: "Lock/remove unused default accounts",
	},
}

// ByID returns the registry entry with the given control id
func ByID(id string) (models.CheckDefinition, bool) {
	for _, def := range Registry {
		if def.ID == id {
			return def, true
		}
	}
	return models.CheckDefinition{}, false
}

// IDs returns all registry ids in order
func IDs() []string {
	ids := make([]string, 0, len(Registry))
	for _, def := range Registry {
		ids = append(ids, def.ID)
	}
	return ids
}
