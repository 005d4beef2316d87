// Package permkit is a permission-resolution engine for role-based,
// hierarchical access control.
//
// Given an already-identified user, PermKit computes the complete set of
// permissions that user effectively holds by combining four sources: direct
// grants, permissions inherited through the role hierarchy, time-bounded
// delegations from other users, and guardian grants over dependent (minor)
// accounts. PermKit does not authenticate users and does not enforce
// anything at a gateway; it only answers "what is this user allowed to do".
//
// # Core Concepts
//
// Resource: the identifier of a protected entity or category. The literal
// "*" is a wildcard matching any resource.
//
// Action: a discrete capability over a resource ("read", "write", "manage",
// ...). A permission grants a set of actions over one resource.
//
// Role hierarchy: roles declare parent roles and inherit all of their
// permissions. The graph may contain cycles and diamonds; traversal visits
// each role at most once per resolution, so it always terminates and no role
// contributes twice.
//
// Delegation: a time-bounded grant of specific resources from one user to
// another. Expired or inactive delegations contribute nothing.
//
// Guardian: a user holding a guardian role who manages a dependent user's
// data. Guardians of a minor get guardian-scoped grants in the minor's
// effective set.
//
// Effective permissions: all collected records are merged into exactly one
// record per resource — actions are unioned, the earliest expiry wins, and
// the most recent grant supplies the grantor. The merged set is cached per
// user with a TTL (15 minutes by default).
//
// # Key Features
//
//   - Cycle-safe role graph traversal with diamond deduplication
//   - Deterministic per-resource permission merging
//   - Time-bounded caching with explicit invalidation hooks
//   - Pluggable store gateway: PostgreSQL (dbkit/bun) or in-memory
//   - Pluggable cache: in-process or Redis-backed
//   - Fail-closed: a failed resolution yields an empty permission set
//
// # Basic Usage
//
//	// 1. Connect the store (or use NewMemoryStore for tests)
//	db, _ := dbkit.New(dbkit.Config{URL: "postgres://..."})
//	store := permkit.NewDatabaseStore(db)
//
//	// 2. Run migrations
//	db.Migrate(ctx, store.Migrations())
//
//	// 3. Create the service
//	service := permkit.NewService(store)
//
//	// 4. Ask questions
//	if service.HasPermission(ctx, userID, "reports", permkit.ActionRead) {
//	    // user can read reports
//	}
//
//	resources := service.GetAccessibleResources(ctx, userID)
//
//	// 5. Invalidate when the underlying data changes
//	service.ClearUserCache(ctx, userID)
//
// # Handler Usage
//
//	checker := service.GetChecker(ctx, userID)
//	ctx = permkit.WithChecker(ctx, checker)
//
//	// later, in a handler
//	if permkit.FromContext(ctx).Allows("files", permkit.ActionWrite) {
//	    // ...
//	}
//
// # Error Policy
//
// Store faults are swallowed at the smallest possible boundary: a failing
// delegation lookup degrades to zero delegated permissions without blocking
// role-based ones, and so on per resolver. The query API never returns
// errors — on an unrecoverable fault it returns an empty set. Callers must
// not read an empty result as an explicit denial; diagnostics go to the
// logger configured with WithLogger.
package permkit
