// Package hmi is a terminal front end for the cluster view.
package hmi

import (
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/ohowland/gridviz/internal/pkg/cluster"
	"github.com/ohowland/gridviz/internal/pkg/dashboard"
	"github.com/ohowland/gridviz/internal/pkg/msg"
	"github.com/rivo/tview"
)

const logo = `
 ______________________________________________
 ___/\/\/\/\/\__/\/\/\/\/\____/\/\__/\/\__/\/\_
 _/\/\__________/\/\____/\/\__/\/\__/\/\__/\/\_
 _/\/\__/\/\/\__/\/\/\/\/\____/\/\__/\/\__/\/\_
 _/\/\____/\/\__/\/\__/\/\____/\/\____/\/\/\___
 ___/\/\/\/\/\__/\/\____/\/\__/\/\______/\_____
 ______________________________________________
`

var clusterColumns = []string{"branch_id", "node_from", "node_to", "flow", "cluster"}

// Page builds one screen of the HMI.
type Page func(h *HMI) (title string, content tview.Primitive)

// HMI holds the widgets and the clusterer they query.
type HMI struct {
	app       *tview.Application
	pages     *tview.Pages
	clusterer msg.Clusterer
	table     *tview.Table
	status    *tview.TextView
	hour      string
	clusters  string
}

// New builds the Splash and Overview pages around c.
func New(c msg.Clusterer) *HMI {
	h := &HMI{
		app:       tview.NewApplication(),
		pages:     tview.NewPages(),
		clusterer: c,
		table:     tview.NewTable().SetFixed(1, 0),
		status:    tview.NewTextView().SetDynamicColors(true),
		hour:      strconv.Itoa(dashboard.InitialHour),
		clusters:  strconv.Itoa(dashboard.InitialClusters),
	}
	for _, page := range []Page{Splash, Overview} {
		title, content := page(h)
		h.pages.AddPage(title, content, true, title == "Splash")
	}
	h.refresh(dashboard.InitialHour, dashboard.InitialClusters)
	return h
}

// Run blocks until the user quits.
func (h *HMI) Run() error {
	log.Println("[HMI] started")
	layout := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(h.pages, 0, 1, true)
	return h.app.SetRoot(layout, true).Run()
}

// Stop ends Run.
func (h *HMI) Stop() {
	h.app.Stop()
}

// Splash shows the logo until enter is pressed.
func Splash(h *HMI) (title string, content tview.Primitive) {
	lines := strings.Split(logo, "\n")
	logoWidth := 0
	logoHeight := len(lines)
	for _, line := range lines {
		if len(line) > logoWidth {
			logoWidth = len(line)
		}
	}
	logoBox := tview.NewTextView().
		SetTextColor(tcell.ColorBlue).
		SetDoneFunc(func(key tcell.Key) {
			h.pages.SwitchToPage("Overview")
		})
	fmt.Fprint(logoBox, logo)

	frame := tview.NewFrame(tview.NewBox()).
		SetBorders(0, 0, 0, 0, 0, 0).
		AddText("Grid Simulation Dashboard", true, tview.AlignCenter, tcell.ColorWhite).
		AddText("", true, tview.AlignCenter, tcell.ColorWhite).
		AddText("press enter", true, tview.AlignCenter, tcell.ColorDarkMagenta)

	flex := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(tview.NewBox(), 0, 5, false).
		AddItem(tview.NewFlex().
			AddItem(tview.NewBox(), 0, 1, false).
			AddItem(logoBox, logoWidth, 1, true).
			AddItem(tview.NewBox(), 0, 1, false), logoHeight, 1, true).
		AddItem(frame, 0, 10, false)

	return "Splash", flex
}

// Overview holds the two numeric inputs and the clustered branch table.
func Overview(h *HMI) (title string, content tview.Primitive) {
	form := tview.NewForm().
		AddInputField("number_of_clusters:", h.clusters, 6, tview.InputFieldInteger, func(text string) {
			h.clusters = text
		}).
		AddInputField("hour:", h.hour, 6, tview.InputFieldInteger, func(text string) {
			h.hour = text
		}).
		AddButton("Cluster", h.submit).
		AddButton("Quit", h.Stop)
	form.SetBorder(true).SetTitle(" clusters ")

	h.table.SetBorder(true).SetTitle(" branches ")
	h.table.SetSelectable(true, false).SetSeparator(' ')

	flex := tview.NewFlex().
		AddItem(form, 32, 0, true).
		AddItem(tview.NewFlex().
			SetDirection(tview.FlexRow).
			AddItem(h.table, 0, 1, false).
			AddItem(h.status, 1, 0, false), 0, 1, false)

	return "Overview", flex
}

func (h *HMI) submit() {
	hour, err := strconv.Atoi(h.hour)
	if err != nil {
		h.setStatus(fmt.Errorf("hour: %q is not a number", h.hour))
		return
	}
	k, err := strconv.Atoi(h.clusters)
	if err != nil {
		h.setStatus(fmt.Errorf("clusters: %q is not a number", h.clusters))
		return
	}
	h.refresh(hour, k)
}

// refresh recomputes the view. A failure keeps the previous table and is
// shown on the status line.
func (h *HMI) refresh(hour, k int) {
	res, err := h.clusterer.Cluster(hour, k)
	if err != nil {
		h.setStatus(err)
		return
	}
	fillClusterTable(h.table, res)
	h.status.SetText(fmt.Sprintf("[green]hour %d, %d clusters, %d branches", res.Hour, res.K, len(res.Rows)))
}

func (h *HMI) setStatus(err error) {
	log.Println("[HMI]", err)
	h.status.SetText("[red]" + tview.Escape(err.Error()))
}

func fillClusterTable(table *tview.Table, res cluster.Result) {
	table.Clear()
	for column, name := range clusterColumns {
		table.SetCell(0, column, tview.NewTableCell(name).
			SetTextColor(tcell.ColorYellow).
			SetSelectable(false))
	}
	for i, r := range res.Rows {
		cells := []string{
			strconv.Itoa(r.BranchID),
			strconv.FormatFloat(r.NodeFrom, 'f', -1, 64),
			strconv.FormatFloat(r.NodeTo, 'f', -1, 64),
			strconv.FormatFloat(r.Flow, 'f', -1, 64),
			strconv.Itoa(r.Cluster),
		}
		for column, text := range cells {
			color := tcell.ColorWhite
			if column == 0 {
				color = tcell.ColorDarkCyan
			}
			table.SetCell(i+1, column, tview.NewTableCell(text).
				SetTextColor(color).
				SetAlign(tview.AlignRight))
		}
	}
}
