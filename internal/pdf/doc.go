// Package pdf renders structured documents to PDF.
//
// A Document is a cover page followed by titled sections. Each section has
// free text and an optional table. Documents can be built in code or loaded
// from a YAML description:
//
//	title: Quarterly Firewall Review
//	subtitle: Panorama duplicate objects
//	header: Firewall Review
//	sections:
//	  - title: Summary
//	    body: |
//	      Two device groups contain overlapping address objects.
//	    table:
//	      columns: [device_group, object_name]
//	      widths: [60, 80]
//	      rows:
//	        - [EU, web-01]
//
// # Layout
//
// The cover page carries no header or footer. Every following page prints
// the document header centered at the top and "Page N" at the bottom. Pages
// break automatically 18mm above the bottom edge; table header rows are
// repeated after a break.
package pdf
