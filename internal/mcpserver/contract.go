package mcpserver

// PostFormatContract describes the canonical Markdown post format that
// LLM consumers should follow when writing post sources.
const PostFormatContract = `# Weave Post Format Contract

Every Markdown post source processed by Weave SHOULD follow this structure.

## Structure

` + "```" + `markdown
---
title: "Human-readable title"       # OPTIONAL – defaults to the filename stem
slug: url-safe-slug                 # OPTIONAL – defaults to the lowercased stem
description: One-line summary       # OPTIONAL – shown in listings
tags: [tag-one, tag-two]            # OPTIONAL – bracketed list
---

Body text in standard Markdown.
` + "```" + `

## Rules

1. **The metadata header is optional.** When present, the ` + "`" + `---` + "`" + ` fences must
   be the first thing in the file (leading whitespace is tolerated).
2. **Values may be quoted.** One layer of matching single or double quotes is
   stripped; mismatched quotes are kept verbatim.
3. **Lists** use bracket syntax on one line: ` + "`" + `tags: [go, web]` + "`" + `.
4. **Slugs** are lowercase, hyphen-separated (e.g. ` + "`" + `my-first-post` + "`" + `).
5. **File paths** end with ` + "`" + `.md` + "`" + ` and use forward slashes.
6. **Encoding** is UTF-8 with a trailing newline.

## Supported Markdown

- Headings ` + "`" + `#` + "`" + ` through ` + "`" + `#####` + "`" + ` (deeper levels render as h5).
- Paragraphs, unordered lists (` + "`" + `-` + "`" + `, ` + "`" + `*` + "`" + `, or ` + "`" + `+` + "`" + ` markers).
- Fenced code blocks with an optional language (` + "```" + `bash` + "```" + `, ` + "```" + `python` + "```" + `, ...).
- Inline code, **bold**, *italics*, and [links](https://example.com).

Nested emphasis, tables, blockquotes, and ordered lists are not supported.

## Example

` + "```" + `markdown
---
title: "Deploying with systemd"
slug: deploying-with-systemd
description: A minimal unit file that just works
tags: [linux, deployment]
---

# Deploying with systemd

Copy the unit file and reload the daemon:

` + "```" + `bash
sudo cp app.service /etc/systemd/system/
sudo systemctl daemon-reload
` + "```" + `
` + "```" + `
`
