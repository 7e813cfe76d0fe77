// Package pipe provides a JSON-lines driving adapter for the search host.
//
// Each line on input is one envelope:
//
//	{"id":"...","type":"RUN_SEARCH","detail":{"word1":"cat","word2":"dog","text":"..."}}
//
// Replies use the same envelope on output. Malformed lines and unknown
// types are answered with SEARCH_ERROR and never stop the loop.
package pipe
