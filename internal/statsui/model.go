// Package statsui provides the Bubble Tea stats interface.
package statsui

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/factcurve/internal/model"
	"github.com/verte-zerg/factcurve/internal/pipeline"
	"github.com/verte-zerg/factcurve/internal/stats"
	"github.com/verte-zerg/factcurve/internal/store"
)

const (
	tabOverview = iota
	tabItems
	tabCurves
)

const (
	defaultPlotHeight = 10
	minPlotHeight     = 4
	maxPlotHeight     = 20
	defaultItemCount  = 5
)

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	cardStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
	modalStyle      = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A")).
			Padding(1, 2)
)

// Model implements the Bubble Tea stats UI.
type Model struct {
	store *store.Store
	cfg   model.StatsConfig

	results []pipeline.LevelResult
	errMsg  string

	tabs       []string
	activeTab  int
	viewports  []viewport.Model
	itemTable  table.Model
	itemLayout tableLayout

	width  int
	height int

	filterMode   bool
	filterInputs []textinput.Model
	filterIndex  int
	filterError  string

	itemSelection       []string
	itemSelectionCustom bool

	itemInputMode  bool
	itemInput      textinput.Model
	itemInputError string
}

type tableLayout struct {
	width    int
	height   int
	rowCount int
	colCount int
}

// NewModel constructs a stats UI model.
func NewModel(st *store.Store, cfg model.StatsConfig) *Model {
	if cfg.PlotHeight <= 0 {
		cfg.PlotHeight = defaultPlotHeight
	}
	m := &Model{
		store: st,
		cfg:   cfg,
		tabs:  []string{"Overview", "Items", "Curves"},
	}
	m.itemSelection = parseItems(cfg.Items)
	if len(m.itemSelection) > 0 {
		m.itemSelectionCustom = true
	}
	m.initInputs()
	m.initItemInput()
	m.itemTable = buildItemTable(nil, 0, 1)
	m.initViewports()
	m.refreshResults()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		m.renderTabContents()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.String() == "q" {
			return m, tea.Quit
		}
		if m.activeTab == tabItems {
			m.itemTable.Focus()
		} else {
			m.itemTable.Blur()
		}
		if m.filterMode {
			return m.updateFilter(msg)
		}
		if m.itemInputMode {
			return m.updateItemInput(msg)
		}
		switch msg.String() {
		case "left", "h":
			m.moveTab(-1)
			return m, tea.ClearScreen
		case "right", "l":
			m.moveTab(1)
			return m, tea.ClearScreen
		case "=":
			m.cfg.PlotHeight = nextPlotHeight(m.cfg.PlotHeight)
			m.renderTabContents()
			return m, nil
		case "-":
			m.cfg.PlotHeight = prevPlotHeight(m.cfg.PlotHeight)
			m.renderTabContents()
			return m, nil
		case "/":
			return m.startFilter()
		case "r":
			m.refreshResults()
			m.updateLayout()
			return m, nil
		case "enter":
			if m.activeTab == tabCurves {
				return m.startItemInput()
			}
			return m, nil
		case "g", "home":
			if m.activeTab == tabItems {
				m.itemTable.GotoTop()
			} else {
				m.viewports[m.activeTab].GotoTop()
			}
			return m, nil
		case "G", "end":
			if m.activeTab == tabItems {
				m.itemTable.GotoBottom()
			} else {
				m.viewports[m.activeTab].GotoBottom()
			}
			return m, nil
		default:
			if m.activeTab == tabItems {
				var cmd tea.Cmd
				m.itemTable, cmd = m.itemTable.Update(msg)
				return m, cmd
			}
			vp := m.viewports[m.activeTab]
			var cmd tea.Cmd
			vp, cmd = vp.Update(msg)
			m.viewports[m.activeTab] = vp
			return m, cmd
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if m.itemInputMode {
		return fitLines(m.renderItemModal(), m.width, m.height)
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderHeader(), m.width, headerHeight)
	body := fitLines(m.renderBody(bodyHeight), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) initViewports() {
	m.viewports = make([]viewport.Model, len(m.tabs))
	for i := range m.viewports {
		m.viewports[i] = viewport.New(0, 0)
	}
}

func (m *Model) initInputs() {
	m.filterInputs = []textinput.Model{
		newFilterInput("Level (1-3, empty for all): "),
		newFilterInput("Plot height: "),
	}
	m.setInputsFromConfig()
}

func (m *Model) initItemInput() {
	m.itemInput = newFilterInput("Items: ")
	m.itemInput.Placeholder = "3x4, 6x7"
}

func newFilterInput(prompt string) textinput.Model {
	input := textinput.New()
	input.Prompt = prompt
	input.CharLimit = 0
	input.Cursor.SetMode(cursor.CursorBlink)
	return input
}

func (m *Model) setInputsFromConfig() {
	if len(m.filterInputs) == 0 {
		return
	}
	if m.cfg.Level > 0 {
		m.filterInputs[0].SetValue(strconv.Itoa(m.cfg.Level))
	} else {
		m.filterInputs[0].SetValue("")
	}
	m.filterInputs[1].SetValue(strconv.Itoa(m.cfg.PlotHeight))
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	tabsHeight := lipgloss.Height(activeNavStyle.Render("X"))
	if tabsHeight < 1 {
		tabsHeight = 1
	}
	headerHeight = tabsHeight + 1
	footerHeight = 1
	if !m.filterMode && m.errMsg != "" {
		footerHeight++
	}
	bodyHeight = m.height - headerHeight - footerHeight
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, vpHeight, _ := m.layoutHeights()
	for i := range m.viewports {
		m.viewports[i].Width = m.width
		m.viewports[i].Height = vpHeight
	}
	m.setItemTableSize(m.width, vpHeight)
	for i := range m.filterInputs {
		promptWidth := lipgloss.Width(m.filterInputs[i].Prompt)
		m.filterInputs[i].Width = maxInt(10, m.width-promptWidth-2)
	}
	promptWidth := lipgloss.Width(m.itemInput.Prompt)
	m.itemInput.Width = maxInt(10, modalInnerWidth(m.width)-promptWidth)
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	if count == 0 {
		return
	}
	next := m.activeTab + delta
	if next < 0 {
		next = count - 1
	}
	if next >= count {
		next = 0
	}
	m.activeTab = next
	if m.activeTab == tabItems {
		m.itemTable.Focus()
	} else {
		m.itemTable.Blur()
	}
}

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderHeader() string {
	tabs := padLines(m.renderTabs(), m.width)
	filters := padLines(m.renderFilterSummary(), m.width)
	return tabs + "\n" + filters
}

func (m *Model) renderFilterSummary() string {
	level := "all"
	if m.cfg.Level > 0 {
		level = strconv.Itoa(m.cfg.Level)
	}
	summary := fmt.Sprintf("Settings: level=%s  plot-height=%d", level, m.cfg.PlotHeight)
	summary = truncateLine(summary, m.width)
	return headerStyle.Render(summary)
}

func (m *Model) renderHelp() string {
	help := "Nav: left/right  Scroll: up/down/pgup/pgdn  Height: -/=  Refresh: r  Settings: /  Quit: q"
	if m.activeTab == tabCurves {
		help = "Nav: left/right  Scroll: up/down/pgup/pgdn  Edit items: enter  Height: -/=  Settings: /  Quit: q"
	}
	return headerStyle.Render(help)
}

func (m *Model) renderFooter() string {
	if m.filterMode {
		return headerStyle.Render("tab/shift+tab: next field  enter: apply  esc: cancel  quit: q")
	}
	if m.errMsg != "" {
		return m.renderHelp() + "\n" + errorStyle.Render(m.errMsg)
	}
	return m.renderHelp()
}

func (m *Model) renderFilterForm() string {
	lines := []string{"Settings (enter to apply, esc to cancel)"}
	for _, input := range m.filterInputs {
		lines = append(lines, input.View())
	}
	if m.filterError != "" {
		lines = append(lines, errorStyle.Render(m.filterError))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderBody(height int) string {
	if m.filterMode {
		return fitLines(m.renderFilterForm(), m.width, height)
	}
	if m.activeTab == tabItems {
		if len(m.filteredItems()) == 0 {
			return fitLines("No items found.", m.width, height)
		}
		view := tableMutedStyle.Render(m.itemTable.View())
		return fitLines(view, m.width, height)
	}
	return fitLines(m.viewports[m.activeTab].View(), m.width, height)
}

func (m *Model) refreshResults() {
	results, err := pipeline.Run(context.Background(), m.store, model.Levels)
	if err != nil {
		m.errMsg = err.Error()
		for i := range m.viewports {
			m.viewports[i].SetContent("Failed to load stats.")
		}
		return
	}
	m.errMsg = ""
	m.results = results
	if !m.itemSelectionCustom {
		m.itemSelection = stats.TopItemsByCount(m.filteredItems(), defaultItemCount)
	}
	width := m.width
	if width <= 0 {
		width = 80
	}
	_, bodyHeight, _ := m.layoutHeights()
	m.applyItemTable(width, bodyHeight, true)
	m.renderTabContents()
}

func (m *Model) renderTabContents() {
	if len(m.viewports) == 0 {
		return
	}
	if m.errMsg != "" {
		for i := range m.viewports {
			m.viewports[i].SetContent("Failed to load stats.")
		}
		return
	}
	width := m.width
	if width <= 0 {
		width = 80
	}
	m.viewports[tabOverview].SetContent(m.renderOverview(width))
	m.viewports[tabCurves].SetContent(m.renderItemCurves(width))
}

// filteredResults restricts the pipeline output to the configured level.
func (m *Model) filteredResults() []pipeline.LevelResult {
	if m.cfg.Level <= 0 {
		return m.results
	}
	out := make([]pipeline.LevelResult, 0, 1)
	for _, res := range m.results {
		if int(res.Level) == m.cfg.Level {
			out = append(out, res)
		}
	}
	return out
}

func (m *Model) filteredItems() []model.ItemStats {
	var items []model.ItemStats
	for _, res := range m.filteredResults() {
		items = append(items, res.Items...)
	}
	return items
}

func (m *Model) renderOverview(width int) string {
	results := m.filteredResults()
	if totalTrials(results) == 0 {
		return "No trials found."
	}
	summary := renderSummaryCards(results, width)
	curves := m.renderLevelCurves(results, width)
	return strings.TrimRight(summary+"\n\n"+curves, "\n")
}

func renderSummaryCards(results []pipeline.LevelResult, width int) string {
	trials := totalTrials(results)
	items := 0
	dropped := 0
	correct := 0
	users := map[string]struct{}{}
	for _, res := range results {
		items += len(res.Items)
		dropped += res.Drops.Total()
		for _, tr := range res.Trials {
			correct += tr.Correct
			users[tr.UserID] = struct{}{}
		}
	}
	accuracy := 0.0
	if trials > 0 {
		accuracy = float64(correct) / float64(trials) * 100
	}
	cards := []string{
		metricCard("Trials", fmt.Sprintf("%d", trials)),
		metricCard("Items", fmt.Sprintf("%d", items)),
		metricCard("Users", fmt.Sprintf("%d", len(users))),
		metricCard("Dropped", fmt.Sprintf("%d", dropped)),
		metricCard("Accuracy", fmt.Sprintf("%.1f%%", accuracy)),
	}
	if width < 80 {
		return strings.Join(cards, "\n")
	}
	row1 := lipgloss.JoinHorizontal(lipgloss.Top, cards[0], cards[1], cards[2])
	row2 := lipgloss.JoinHorizontal(lipgloss.Top, cards[3], cards[4])
	return lipgloss.JoinVertical(lipgloss.Left, row1, row2)
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Render(content)
}

func (m *Model) renderLevelCurves(results []pipeline.LevelResult, width int) string {
	series := make([]stats.Series, 0, len(results))
	for _, res := range results {
		if len(res.Curve) == 0 {
			continue
		}
		series = append(series, stats.CurveSeries(fmt.Sprintf("Level %d", res.Level), res.Curve))
	}
	if len(series) == 0 {
		return "No encounter data."
	}
	var buf bytes.Buffer
	if err := stats.RenderEncounterCurves(&buf, "Accuracy by Encounter", series, width, m.cfg.PlotHeight, true); err != nil {
		return fmt.Sprintf("Failed to render curves: %v", err)
	}
	return strings.TrimRight(buf.String(), "\n")
}

func (m *Model) renderItemCurves(width int) string {
	results := m.filteredResults()
	if totalTrials(results) == 0 {
		return "No trials found."
	}
	if len(m.itemSelection) == 0 {
		return "No items selected. Press Enter to set items."
	}
	header := headerStyle.Render(fmt.Sprintf("Items: %s", strings.Join(m.itemSelection, ", ")))
	var buf bytes.Buffer
	for _, itemKey := range m.itemSelection {
		series := make([]stats.Series, 0, len(results))
		for _, res := range results {
			curve := itemCurve(res.Indexed, itemKey)
			if len(curve) == 0 {
				continue
			}
			series = append(series, stats.CurveSeries(fmt.Sprintf("Level %d", res.Level), curve))
		}
		if len(series) == 0 {
			fmt.Fprintf(&buf, "Item %s\nNo trials for this item.\n\n", itemKey)
			continue
		}
		if err := stats.RenderEncounterCurves(&buf, fmt.Sprintf("Item %s", itemKey), series, width, m.cfg.PlotHeight, true); err != nil {
			return fmt.Sprintf("Failed to render item curves: %v", err)
		}
	}
	return strings.TrimRight(header+"\n"+buf.String(), "\n")
}

func itemCurve(indexed []model.EncounterTrial, itemKey string) []model.EncounterPoint {
	var rows []model.EncounterTrial
	for _, row := range indexed {
		if row.ItemKey == itemKey {
			rows = append(rows, row)
		}
	}
	return stats.AccuracyByEncounter(rows)
}

func totalTrials(results []pipeline.LevelResult) int {
	total := 0
	for _, res := range results {
		total += len(res.Trials)
	}
	return total
}

func buildItemTable(rows []table.Row, width, height int) table.Model {
	t := table.New(
		table.WithColumns(itemTableColumns()),
		table.WithRows(rows),
		table.WithHeight(maxInt(1, height-1)),
	)
	t.SetWidth(width)
	t.SetStyles(itemTableStyles())
	return t
}

func itemTableColumns() []table.Column {
	return []table.Column{
		{Title: "Level", Width: 5},
		{Title: "Item", Width: 10},
		{Title: "A", Width: 3},
		{Title: "B", Width: 3},
		{Title: "N", Width: 6},
		{Title: "Accuracy", Width: 9},
		{Title: "Std Err", Width: 8},
	}
}

func (m *Model) buildItemRows() []table.Row {
	var rows []table.Row
	for _, res := range m.filteredResults() {
		for _, item := range res.Items {
			rows = append(rows, table.Row{
				strconv.Itoa(int(res.Level)),
				item.ItemKey,
				strconv.Itoa(item.OperandA),
				strconv.Itoa(item.OperandB),
				strconv.Itoa(item.N),
				fmt.Sprintf("%.2f%%", item.MeanAccuracy*100),
				stats.FormatStandardError(item.StandardError),
			})
		}
	}
	return rows
}

func (m *Model) applyItemTable(width, height int, force bool) {
	rows := m.buildItemRows()
	cols := itemTableColumns()
	viewportHeight := maxInt(1, height-1)
	if !force &&
		m.itemLayout.width == width &&
		m.itemLayout.height == viewportHeight &&
		m.itemLayout.rowCount == len(rows) &&
		m.itemLayout.colCount == len(cols) {
		return
	}
	m.itemTable.SetColumns(cols)
	m.itemTable.SetRows(rows)
	m.itemLayout.rowCount = len(rows)
	m.itemLayout.colCount = len(cols)
	m.setItemTableSize(width, height)
}

func (m *Model) setItemTableSize(width, height int) {
	viewportHeight := maxInt(1, height-1)
	if m.itemLayout.width == width && m.itemLayout.height == viewportHeight {
		return
	}
	m.itemLayout.width = width
	m.itemLayout.height = viewportHeight
	m.itemTable.SetWidth(width)
	m.itemTable.SetHeight(viewportHeight)
	viewportHeight = m.adjustItemTableHeight(height)
	if m.itemLayout.height != viewportHeight {
		m.itemLayout.height = viewportHeight
		m.itemTable.SetHeight(viewportHeight)
	}
}

func itemTableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}

func (m *Model) adjustItemTableHeight(bodyHeight int) int {
	target := maxInt(1, bodyHeight)
	height := m.itemTable.Height()
	viewHeight := lipgloss.Height(m.itemTable.View())
	if viewHeight == target {
		return height
	}
	height += target - viewHeight
	if height < 1 {
		height = 1
	}
	m.itemTable.SetHeight(height)
	viewHeight = lipgloss.Height(m.itemTable.View())
	if viewHeight == target {
		return height
	}
	height += target - viewHeight
	if height < 1 {
		height = 1
	}
	return height
}

func (m *Model) startFilter() (tea.Model, tea.Cmd) {
	m.filterMode = true
	m.filterError = ""
	m.setInputsFromConfig()
	return m, m.setFilterIndex(0)
}

func (m *Model) startItemInput() (tea.Model, tea.Cmd) {
	m.itemInputMode = true
	m.itemInputError = ""
	m.itemInput.SetValue(strings.Join(m.itemSelection, ","))
	return m, m.itemInput.Focus()
}

func (m *Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.filterMode = false
		m.filterError = ""
		return m, nil
	case tea.KeyEnter:
		if err := m.applyFilter(); err != nil {
			m.filterError = err.Error()
			return m, nil
		}
		m.filterMode = false
		m.filterError = ""
		if !m.itemSelectionCustom {
			m.itemSelection = stats.TopItemsByCount(m.filteredItems(), defaultItemCount)
		}
		width := m.width
		if width <= 0 {
			width = 80
		}
		_, bodyHeight, _ := m.layoutHeights()
		m.applyItemTable(width, bodyHeight, true)
		m.renderTabContents()
		m.updateLayout()
		return m, nil
	case tea.KeyTab:
		return m, m.setFilterIndex(m.filterIndex + 1)
	case tea.KeyShiftTab:
		return m, m.setFilterIndex(m.filterIndex - 1)
	}
	var cmd tea.Cmd
	m.filterInputs[m.filterIndex], cmd = m.filterInputs[m.filterIndex].Update(msg)
	return m, cmd
}

func (m *Model) updateItemInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.itemInputMode = false
		m.itemInputError = ""
		return m, nil
	case tea.KeyEnter:
		m.applyItemInput()
		m.itemInputMode = false
		m.itemInputError = ""
		m.renderTabContents()
		return m, nil
	}
	var cmd tea.Cmd
	m.itemInput, cmd = m.itemInput.Update(msg)
	return m, cmd
}

func (m *Model) setFilterIndex(idx int) tea.Cmd {
	count := len(m.filterInputs)
	if count == 0 {
		return nil
	}
	if idx < 0 {
		idx = count - 1
	}
	if idx >= count {
		idx = 0
	}
	m.filterIndex = idx
	var cmd tea.Cmd
	for i := range m.filterInputs {
		if i == m.filterIndex {
			cmd = m.filterInputs[i].Focus()
		} else {
			m.filterInputs[i].Blur()
		}
	}
	return cmd
}

func (m *Model) applyFilter() error {
	levelInput := strings.TrimSpace(m.filterInputs[0].Value())
	level := 0
	if levelInput != "" {
		parsed, err := strconv.Atoi(levelInput)
		if err != nil || parsed < 1 || parsed > 3 {
			return fmt.Errorf("invalid level (use 1-3 or leave empty)")
		}
		level = parsed
	}

	heightInput := strings.TrimSpace(m.filterInputs[1].Value())
	plotHeight := defaultPlotHeight
	if heightInput != "" {
		parsed, err := strconv.Atoi(heightInput)
		if err != nil || parsed < minPlotHeight || parsed > maxPlotHeight {
			return fmt.Errorf("invalid plot height (use %d-%d)", minPlotHeight, maxPlotHeight)
		}
		plotHeight = parsed
	}

	m.cfg.Level = level
	m.cfg.PlotHeight = plotHeight
	return nil
}

func (m *Model) applyItemInput() {
	items := parseItems(m.itemInput.Value())
	if len(items) == 0 {
		m.itemSelectionCustom = false
		m.itemSelection = stats.TopItemsByCount(m.filteredItems(), defaultItemCount)
		return
	}
	m.itemSelectionCustom = true
	m.itemSelection = items
}

func (m *Model) renderItemModal() string {
	title := cardValueStyle.Render("Select Items")
	body := []string{
		title,
		m.itemInput.View(),
		headerStyle.Render("Comma-separated item cues (e.g. 3x4, 6x7)."),
		headerStyle.Render("Enter to apply / Esc to cancel"),
	}
	if m.itemInputError != "" {
		body = append(body, errorStyle.Render(m.itemInputError))
	}
	box := modalStyle.Width(modalWidth(m.width)).Render(strings.Join(body, "\n"))
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func parseItems(input string) []string {
	parts := strings.FieldsFunc(input, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})
	seen := make(map[string]struct{}, len(parts))
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if _, ok := seen[part]; ok {
			continue
		}
		seen[part] = struct{}{}
		out = append(out, part)
	}
	sort.Strings(out)
	return out
}

func nextPlotHeight(n int) int {
	if n+2 > maxPlotHeight {
		return maxPlotHeight
	}
	return n + 2
}

func prevPlotHeight(n int) int {
	if n-2 < minPlotHeight {
		return minPlotHeight
	}
	return n - 2
}

func modalWidth(width int) int {
	return maxInt(40, minInt(width-4, 80))
}

func modalInnerWidth(width int) int {
	w := modalWidth(width)
	w -= 6 // 2 border + 4 padding
	if w < 10 {
		return 10
	}
	return w
}

func padLines(s string, width int) string {
	if width <= 0 || s == "" {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	return strings.Join(lines, "\n")
}

func padLine(line string, width int) string {
	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		return line + strings.Repeat(" ", width-lineWidth)
	}
	return line
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

func truncateLine(s string, width int) string {
	if width <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}
