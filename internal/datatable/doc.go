// Package datatable holds the state behind a paginated, searchable table.
//
// A Controller owns the current page and the search text. Search input is
// echoed at once and committed after a quiet period (DefaultDebounce); every
// commit returns the table to its first page. Two strategies decide where
// the work happens:
//
//   - client mode filters and pages a fully loaded slice in memory and
//     mirrors page and search into a LocationStore (the URL query on the web);
//   - server mode shows the rows it was given and reports page and search
//     requests to the caller, who fetches the next page.
//
// Render turns a page of rows into a ViewModel carrying both the card and
// the grid layout, and PageWindow computes the pagination strip.
package datatable
