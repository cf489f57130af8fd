// Package static provides the page shell and browser assets for the
// CRM Pro landing page: the base layout, the stylesheet, the early theme
// script that prevents a flash of the wrong theme, the theme toggle and
// the cursor trail client.
package static
