package api

import "strings"

// replaceParamsInURI substitutes every occurrence of each :param key in uri
// with its value. Substitution is literal, not URL-encoding aware, matching
// the service's documented template contract; callers pre-stringify values.
// Keys absent from the template are ignored.
func replaceParamsInURI(uri string, uriParams map[string]string) string {
	if len(uriParams) == 0 {
		return uri
	}
	for param, value := range uriParams {
		uri = strings.ReplaceAll(uri, param, value)
	}
	return uri
}
