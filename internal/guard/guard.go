// Package guard implements the per-request routing decision evaluated
// before any page is rendered. Decide is pure over (path, cookie states)
// so it can be tested without HTTP plumbing.
package guard

import (
	"strings"

	"github.com/Tengku-Abah/Tubes-PBP-sub001/internal/session"
)

type CookieState int

const (
	Absent CookieState = iota
	Malformed
	Valid
)

type Cookie struct {
	State  CookieState
	Record session.Record
}

// Cookies holds the parse state of the three auth cookies attached to a
// request.
type Cookies struct {
	Admin  Cookie // admin-auth-token
	User   Cookie // user-auth-token
	Legacy Cookie // auth-token
}

type Decision struct {
	Allow    bool
	Redirect string
}

func allow() Decision                 { return Decision{Allow: true} }
func redirect(target string) Decision { return Decision{Redirect: target} }

// customerFacingPaths is the fixed set the reverse-guard protects from
// authenticated admins. Home matches exactly; the rest match by prefix.
var customerFacingPaths = []string{
	session.HomePath,
	"/Detail",
	"/Review",
	"/Profile",
	"/view-order",
	"/cart",
	"/checkout",
}

// protectedCustomerPrefixes require some parsable session, any role.
var protectedCustomerPrefixes = []string{"/cart", "/checkout"}

// Decide evaluates the decision table in order; the first matching rule
// wins.
//
//  1. Reverse-guard: an admin session on a customer-facing path is sent to
//     the admin landing page. Malformed cookies are ignored here.
//  2. Admin-area guard: paths under /Admin require an admin session.
//  3. Protected customer routes: /cart and /checkout require any parsable
//     session; the role is deliberately not re-checked.
//  4. Everything else is allowed.
//
// The reverse-guard must run first: customer-facing paths carry no admin
// prefix, so rule 2 would never eject an admin from them.
func Decide(path string, c Cookies) Decision {
	if isCustomerFacing(path) {
		if rec, ok := adminSession(c); ok && rec.IsAdmin() {
			return redirect(session.AdminPathPrefix)
		}
	}

	if strings.HasPrefix(path, session.AdminPathPrefix) {
		cookie := pick(c.Admin, c.Legacy)
		switch cookie.State {
		case Absent:
			return redirect(session.LoginPath)
		case Malformed:
			return redirect(session.LoginPath)
		}
		if !cookie.Record.IsAdmin() {
			return redirect(session.HomePath)
		}
		return allow()
	}

	for _, prefix := range protectedCustomerPrefixes {
		if !strings.HasPrefix(path, prefix) {
			continue
		}

		cookie := pick(c.User, c.Legacy)
		if cookie.State != Valid {
			return redirect(session.LoginPath)
		}
		return allow()
	}

	return allow()
}

// adminSession resolves rule 1's cookie fallback: admin-auth-token first,
// else the legacy cookie. A present-but-malformed admin cookie is not
// rescued by the legacy cookie: the scoped cookie is the authoritative
// record for the admin area, and once it is corrupt the claim is treated
// as no session rather than whatever the site-wide duplicate says.
func adminSession(c Cookies) (session.Record, bool) {
	if c.Admin.State == Valid {
		return c.Admin.Record, true
	}
	if c.Admin.State == Absent && c.Legacy.State == Valid {
		return c.Legacy.Record, true
	}
	return session.Record{}, false
}

// pick returns the first present cookie, preserving its malformed state;
// only when the primary is entirely absent does the legacy cookie count.
func pick(primary Cookie, legacy Cookie) Cookie {
	if primary.State != Absent {
		return primary
	}
	return legacy
}

func isCustomerFacing(path string) bool {
	for _, p := range customerFacingPaths {
		if p == session.HomePath {
			if path == session.HomePath {
				return true
			}
			continue
		}
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}
