// Package pdfgen renders a normalized resume profile into a reformatted PDF
// document.
package pdfgen

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/go-pdf/fpdf"
	"github.com/karthikeyakondabathula/llm-resume-parser/internal/resume"
)

const (
	fontFamily = "Helvetica"

	titleSize   = 18.0
	headingSize = 14.0
	normalSize  = 11.0

	lineHeight     = 5.5
	labelWidth     = 38.0
	sectionPadding = 3.0
)

// Build renders the profile into w as a PDF document.
func Build(profile *resume.Profile, w io.Writer) error {
	if profile == nil {
		return fmt.Errorf("profile is required")
	}

	doc := newDocument()
	doc.title("Processed Resume")

	writeContact(doc, profile)
	writeSocial(doc, profile.Social)

	if profile.Summary != "" {
		doc.heading("Summary")
		doc.paragraph(profile.Summary)
	}

	if profile.Skills != "" {
		doc.heading("Skills")
		doc.paragraph(profile.Skills)
	}

	writeWork(doc, profile.Work)
	writeEducation(doc, profile.Education)
	writeNamedSection(doc, "Projects", profile.Projects, false)
	writeNamedSection(doc, "Certifications", profile.Certifications, true)
	writeNamedSection(doc, "Achievements", profile.Achievements, true)
	writeOther(doc, profile.Other)

	return doc.output(w)
}

// BuildFallback renders the placeholder document used when the full layout
// fails, so the caller always has a PDF to serve.
func BuildFallback(w io.Writer) error {
	doc := newDocument()
	doc.title("Resume Processing Failed")
	doc.paragraph("The resume was uploaded but PDF generation encountered an error.")
	doc.paragraph("Please check the JSON data for extracted information.")
	return doc.output(w)
}

type document struct {
	pdf *fpdf.Fpdf
}

func newDocument() *document {
	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetMargins(15, 13, 15)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()
	return &document{pdf: pdf}
}

func (d *document) title(text string) {
	d.pdf.SetFont(fontFamily, "B", titleSize)
	d.pdf.SetTextColor(0, 0, 139)
	d.pdf.CellFormat(0, 9, text, "", 1, "C", false, 0, "")
	d.pdf.Ln(4)
}

func (d *document) heading(text string) {
	d.pdf.Ln(sectionPadding)
	d.pdf.SetFont(fontFamily, "B", headingSize)
	d.pdf.SetTextColor(0, 0, 139)
	d.pdf.CellFormat(0, 7, text, "B", 1, "L", false, 0, "")
	d.pdf.Ln(1.5)
	d.pdf.SetTextColor(0, 0, 0)
}

func (d *document) paragraph(text string) {
	d.pdf.SetFont(fontFamily, "", normalSize)
	d.pdf.MultiCell(0, lineHeight, text, "", "L", false)
	d.pdf.Ln(1)
}

func (d *document) italic(text string) {
	d.pdf.SetFont(fontFamily, "I", normalSize)
	d.pdf.MultiCell(0, lineHeight, text, "", "L", false)
}

func (d *document) bold(text string) {
	d.pdf.SetFont(fontFamily, "B", normalSize)
	d.pdf.MultiCell(0, lineHeight, text, "", "L", false)
}

func (d *document) labeled(label, value string) {
	d.pdf.SetFont(fontFamily, "B", normalSize)
	d.pdf.CellFormat(labelWidth, lineHeight+0.5, label, "", 0, "L", false, 0, "")
	d.pdf.SetFont(fontFamily, "", normalSize)
	d.pdf.MultiCell(0, lineHeight+0.5, value, "", "L", false)
}

func (d *document) output(w io.Writer) error {
	if err := d.pdf.Output(w); err != nil {
		return fmt.Errorf("writing pdf: %w", err)
	}
	return nil
}

func writeContact(doc *document, profile *resume.Profile) {
	name := profile.FullName()
	if name == "" {
		return
	}

	doc.heading("Contact Information")
	doc.labeled("Name:", name)
	if profile.Email != "" {
		doc.labeled("Email:", profile.Email)
	}
	if profile.Phone != "" {
		doc.labeled("Phone:", profile.Phone)
	}
	if profile.Location != "" {
		doc.labeled("Location:", profile.Location)
	}
}

func writeSocial(doc *document, social map[string]string) {
	platforms := make([]string, 0, len(social))
	for platform, link := range social {
		if strings.TrimSpace(link) != "" {
			platforms = append(platforms, platform)
		}
	}
	if len(platforms) == 0 {
		return
	}
	sort.Strings(platforms)

	doc.heading("Social Links")
	for _, platform := range platforms {
		doc.labeled(titleCase(platform)+":", social[platform])
	}
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func writeWork(doc *document, work []resume.Position) {
	if len(work) == 0 {
		return
	}

	doc.heading("Work Experience")
	for _, job := range work {
		if job.Company == "" && job.Title == "" {
			continue
		}

		header := job.Title
		if job.Title != "" && job.Company != "" {
			header = fmt.Sprintf("%s at %s", job.Title, job.Company)
		} else if header == "" {
			header = job.Company
		}
		doc.bold(header)

		if dates := dateRange(job.StartDate, job.EndDate); dates != "" {
			doc.italic(dates)
		}
		if job.Description != "" {
			doc.paragraph(job.Description)
		}
		doc.pdf.Ln(1.5)
	}
}

func writeEducation(doc *document, education []resume.Education) {
	if len(education) == 0 {
		return
	}

	doc.heading("Education")
	for _, edu := range education {
		if edu.Degree == "" && edu.Institution == "" {
			continue
		}

		header := edu.Degree
		if edu.Degree != "" && edu.Institution != "" {
			header = fmt.Sprintf("%s - %s", edu.Degree, edu.Institution)
		} else if header == "" {
			header = edu.Institution
		}
		doc.bold(header)

		if dates := dateRange(edu.StartDate, edu.EndDate); dates != "" {
			doc.italic(dates)
		}
		if edu.GPA != "" {
			doc.paragraph("GPA/Percentage: " + edu.GPA)
		}
		doc.pdf.Ln(1.5)
	}
}

func writeNamedSection(doc *document, heading string, items []resume.NamedItem, bulleted bool) {
	named := make([]resume.NamedItem, 0, len(items))
	for _, item := range items {
		if item.Name != "" {
			named = append(named, item)
		}
	}
	if len(named) == 0 {
		return
	}

	doc.heading(heading)
	for _, item := range named {
		if bulleted {
			text := "- " + item.Name
			if item.Description != "" {
				text += ": " + item.Description
			}
			doc.paragraph(text)
			continue
		}

		doc.bold(item.Name)
		if item.Description != "" {
			doc.paragraph(item.Description)
		}
		doc.pdf.Ln(1.5)
	}
}

func writeOther(doc *document, other map[string]string) {
	keys := make([]string, 0, len(other))
	for key, value := range other {
		if strings.TrimSpace(value) != "" {
			keys = append(keys, key)
		}
	}
	if len(keys) == 0 {
		return
	}
	sort.Strings(keys)

	doc.heading("Other Information")
	for _, key := range keys {
		doc.labeled(key+":", other[key])
	}
}

func dateRange(start, end string) string {
	switch {
	case start != "" && end != "":
		return start + " - " + end
	case start != "":
		return start
	default:
		return end
	}
}
