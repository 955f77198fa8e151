package login

// redirectTargets are the pages a login may send the user back to.
var redirectTargets = map[string]bool{
	"/":                 true,
	"/employment-types": true,
	"/applications":     true,
	"/lenders":          true,
	"/apply":            true,
}

// SafeRedirect returns target when it is whitelisted and "/" otherwise.
func SafeRedirect(target string) string {
	if redirectTargets[target] {
		return target
	}
	return "/"
}
