// Package secret resolves secret references in credential material and
// configuration values.
//
// It supports:
//   - Strict environment expansion (see ExpandEnvStrict)
//   - Pluggable secret providers (see Provider)
//   - Resolving secret references inside values (see Resolver)
//
// References use the prefix "secretref:":
//   - Full value:  secretref:env:JIRA_API_TOKEN
//   - Inline use:  Bearer secretref:env:JIRA_API_TOKEN
//
// Values without a reference pass through after environment expansion,
// so plain strings, ${VAR} expansions, and secret references all flow
// through the same resolution call.
package secret
