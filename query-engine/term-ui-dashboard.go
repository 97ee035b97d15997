package query_engine

import (
	"encoding/json"
	"log"
	"time"

	ui "github.com/gizak/termui/v3"
)
import "github.com/gizak/termui/v3/widgets"

func (qe *QueryEngine) ui() {
	if err := ui.Init(); err != nil {
		log.Fatalf("failed to initialize termui: %v", err)
	}
	defer ui.Close()

	p0 := widgets.NewParagraph()
	p0.Title = "[ core ]"
	p0.Text = ""
	x2, y2 := ui.TerminalDimensions()
	p0.SetRect(0, 0, x2, 2)
	p0.Border = true

	uiEvents := ui.PollEvents()
	lastLogLines := make([]string, 0, 100)
	selectedComputeNode := 0
	for {
		topInfo := qe.buildTopString(true)
		p0.Text = topInfo.topLines

		computeTable := widgets.NewTable()
		computeTable.Title = "[ VectorOS Query scheduler ]"
		computeTable.Rows = topInfo.computeEngines
		computeTable.TextStyle = ui.NewStyle(ui.ColorWhite)
		computeTable.RowSeparator = false
		computeTable.FillRow = true
		computeTable.RowStyles[0] = ui.NewStyle(ui.ColorWhite, ui.ColorBlack, ui.ModifierBold)
		computeTable.TextAlignment = ui.AlignCenter
		computeTable.RowStyles[selectedComputeNode] = ui.Style{
			Fg:       ui.ColorYellow,
			Bg:       ui.ColorBlue,
			Modifier: ui.ModifierUnderline,
		}

		collectionsTable := widgets.NewTable()
		collectionsTable.Title = "[ Collections ]"
		collectionsTable.RowSeparator = false
		collectionsTable.Rows = topInfo.collectionLines
		collectionsTable.FillRow = true
		collectionsTable.RowStyles[0] = ui.NewStyle(ui.ColorWhite, ui.ColorBlack, ui.ModifierBold)

		processesTable := widgets.NewTable()
		processesTable.Title = "[ Processes ]"
		processesTable.RowSeparator = false
		processesTable.Rows = topInfo.processesLines
		processesTable.FillRow = true
		processesTable.RowStyles[0] = ui.NewStyle(ui.ColorWhite, ui.ColorBlack, ui.ModifierBold)

		logPane := widgets.NewTable()
		logPane.Title = "[ Logs ]"
		logPane.RowSeparator = false
		logPane.ColumnWidths = []int{10, x2 - 10}
		logPane.FillRow = true
		logPane.RowStyles[0] = ui.NewStyle(ui.ColorWhite, ui.ColorBlack, ui.ModifierBold)
		logLinesToShow := make([][]string, 0)
		// now add lines from lastLogLines to logLinesToShow, starting with the last one
		logLinesToShow = append(logLinesToShow, []string{"level", "message"})
		for i := len(lastLogLines) - 1; i >= 0; i-- {
			type logLine struct {
				Level   string `json:"level"`
				Message string `json:"message"`
			}
			logLineData := &logLine{}
			_ = json.Unmarshal([]byte(lastLogLines[i]), logLineData)
			logLinesToShow = append(logLinesToShow, []string{logLineData.Level, logLineData.Message})
			if len(logLinesToShow) >= ((y2/2+y2)/2)-2 {
				break
			}
		}

		logPane.Rows = logLinesToShow

		p0.SetRect(0, 0, x2, 4)
		computeEnds := 4 + len(topInfo.computeEngines) + 2
		computeTable.SetRect(0, 4, x2, computeEnds)

		collectionsEnds := computeEnds + len(topInfo.collectionLines) + 2
		collectionsTable.SetRect(0, computeEnds, x2, collectionsEnds)

		processesEnds := collectionsEnds + 2 + len(topInfo.processesLines)
		processesTable.SetRect(0, collectionsEnds, x2, processesEnds)
		logPane.SetRect(0, processesEnds, x2, y2)

		ui.Render(p0, computeTable, collectionsTable, logPane, processesTable)

		timer := time.NewTimer(100 * time.Millisecond)
		select {
		case <-timer.C:
		case logLine := <-qe.settings.LogChan:
			lastLogLines = append(lastLogLines, logLine)
			if len(lastLogLines) > 100 {
				lastLogLines = lastLogLines[1:]
			}
		case e := <-uiEvents:
			if e.Type == ui.ResizeEvent {
				x2, y2 = e.Payload.(ui.Resize).Width, e.Payload.(ui.Resize).Height
			}
			switch e.ID {
			case "<Up>":
				// move cursor up
				if selectedComputeNode > 0 {
					selectedComputeNode--
				}
			case "<Down>":
				// move cursor down
				if selectedComputeNode < len(topInfo.computeEngines)-1 {
					selectedComputeNode++
				}
			case "u":
				// toggle upsert serving on the selected worker
				qe.statsLock.Lock()
				if selectedComputeNode > 0 && selectedComputeNode <= len(qe.Nodes) {
					node := qe.Nodes[selectedComputeNode-1]
					if len(node.JobTypes) == 1 {
						node.JobTypes = []JobType{JT_Search, JT_Upsert}
					} else {
						node.JobTypes = []JobType{JT_Search}
					}
				}
				qe.statsLock.Unlock()
			case "q", "<C-c>":
				return
			}
		}
	}
}
