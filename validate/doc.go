// Package validate provides stateless precondition checks for VK API call
// arguments.
//
// Guards are plain functions over typed request fields; there is no runtime
// introspection. Operations compose them before any stateful guard runs, so a
// bad argument never consumes a rate-limit slot or breaker accounting, and
// failures carry a *ValidationError that the retry policy refuses to retry:
//
//	func (r UsersGetRequest) Validate() error {
//	    return validate.All(
//	        validate.ID("user_id", r.UserID),
//	        validate.Count("count", r.Count, 1000),
//	    )
//	}
package validate
