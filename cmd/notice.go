package cmd

import (
	"fmt"
	"io"
	"strings"

	"convertany/converter/format"
)

const (
	appName      = "ConvertAnyImage"
	appTitle     = appName + " - Universal Image Format Converter"
	appCopyright = "Copyright (C) 2025 leastbit"
)

const licenseText = `
GNU GENERAL PUBLIC LICENSE
Version 3, 29 June 2007

Copyright (C) 2007 Free Software Foundation, Inc. <https://fsf.org/>
Everyone is permitted to copy and distribute verbatim copies
of this license document, but changing it is not allowed.

                            Preamble

  The GNU General Public License is a free, copyleft license for
software and other kinds of works.

  The licenses for most software and other practical works are designed
to take away your freedom to share and change the works.  By contrast,
the GNU General Public License is intended to guarantee your freedom to
share and change all versions of a program--to make sure it remains free
software for all its users.  We, the Free Software Foundation, use the
GNU General Public License for most of our software; it applies also to
any other work released this way by its authors.  You can apply it to
your programs, too.

[... Full GPL v3 text continues ...]

For the complete license text, see the LICENSE file included with this
program or visit: https://www.gnu.org/licenses/gpl-3.0.html

IMPORTANT NOTICE FOR DERIVATIVE WORKS:
If you modify this program or create derivative works based on it,
you MUST license your derivative work under the GPL v3 or later.
This ensures that all users continue to have the freedom to use,
study, modify, and distribute the software.
`

func printLicense(w io.Writer) {
	fmt.Fprintln(w, licenseText)
}

func printCopyright(w io.Writer) {
	rule := strings.Repeat("=", 70)
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, appTitle)
	fmt.Fprintln(w, appCopyright)
	fmt.Fprintln(w, `
This program is free software licensed under GPL v3.
You are free to redistribute and/or modify it under the terms
of the GNU General Public License as published by the Free
Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.

IMPORTANT: Any derivative works must also be licensed under GPL.
See the LICENSE file for complete terms and conditions.
Full license text: https://www.gnu.org/licenses/gpl-3.0.html`)
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w)
}

func printStartupNotice(w io.Writer) {
	fmt.Fprintf(w, "%s v%s - %s\n", appName, shortVersion(), appCopyright)
	fmt.Fprintln(w, "Licensed under GPL v3 - This is free software with ABSOLUTELY NO WARRANTY.")
	fmt.Fprintln(w, "Type '--license' for license information.")
	fmt.Fprintln(w)
}

// guide is the long help: usage, examples, parameters and formats.
func guide(reg *format.Registry) string {
	var inputs []string
	for _, ext := range reg.InputExtensions() {
		if ext != format.PDFExtension {
			inputs = append(inputs, strings.ToUpper(strings.TrimPrefix(ext, ".")))
		}
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s\n%s - Licensed under GPL v3\n", appTitle, appCopyright)
	sb.WriteString(`
=== USAGE ===
convertany <input_folder> [output_folder] [options]

=== EXAMPLES ===
convertany ./input_folder -f WEBP -d 400 -q 90
convertany ./input_folder ./my_output -f JPEG -d 300 -q 95
convertany ./input_folder -f PNG
convertany ./scans -f TIFF --renderer poppler --report report.yaml
convertany --license    # Show license information

=== PARAMETERS ===
input_folder:  Required, folder containing files to convert
output_folder: Optional, default 'output' folder
-f format:     Optional, default PNG
`)
	fmt.Fprintf(&sb, "               Supported: %s\n", strings.Join(reg.Names(), ", "))
	sb.WriteString(`-d DPI:        Optional, default 400
               Recommended: 150(web) 300(print) 600(high-quality)
-q quality:    Optional, default 100(lossless), range 1-100
--license:     Show full license information
--copyright:   Show copyright and license summary

=== SUPPORTED INPUT FORMATS ===
`)
	fmt.Fprintf(&sb, "Images: %s\n", strings.Join(inputs, ", "))
	sb.WriteString(`Documents: PDF (multi-page support)

=== GPL LICENSE NOTICE ===
This is free software: you are free to change and redistribute it.
There is NO WARRANTY, to the extent permitted by law.
Any derivative works must also be licensed under GPL v3.
Use --license for complete license terms.`)
	return sb.String()
}
