package mcpserver

// PostFormatContract describes the front matter the indexer reads from a
// post. LLM consumers should follow it when writing posts.
const PostFormatContract = `# Post Format Contract

A post is a Markdown file under the content directory. Only its title and
URL are published to the search corpus.

## Structure

` + "```" + `markdown
---
title: Human-readable title   # title shown in search results
date: 2025-01-15              # OPTIONAL: newer posts are listed first
url: /custom/path/            # OPTIONAL: overrides the derived URL
draft: true                   # OPTIONAL: drafts are not published
---

Body text in standard Markdown.
` + "```" + `

TOML front matter between ` + "`+++`" + ` fences is accepted with the same keys.

## Rules

1. **Fences first.** The ` + "`---`" + ` (YAML) or ` + "`+++`" + ` (TOML) fence must be the
   first line of the file.
2. **Title.** ` + "`title`" + ` wins. Without it the first ` + "`# heading`" + ` is used, then the
   file name.
3. **URL.** ` + "`url`" + ` wins, then ` + "`permalink`" + `. Otherwise the URL is derived from
   the path: ` + "`posts/hello.md`" + ` becomes ` + "`/posts/hello/`" + `, ` + "`slug`" + ` replaces the
   file name, and ` + "`index.md`" + ` maps to its directory.
4. **Date.** ` + "`date`" + ` or ` + "`published`" + `, as an ISO-8601 date or datetime.
5. **Invalid front matter** is ignored and the file is indexed from its body.
6. **Encoding** is UTF-8.

## Example

` + "```" + `markdown
---
title: Release notes for 2.0
date: 2025-01-20
slug: release-2-0
---

# Release notes for 2.0
` + "```" + `
`
