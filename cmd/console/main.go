package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"rag-console/internal/bootstrap"
	"rag-console/internal/config"
	"rag-console/internal/constant"
	"rag-console/internal/entity"
	"rag-console/internal/service"
	"rag-console/internal/tracer"
	"rag-console/pkg/citation"
	"rag-console/pkg/navigate"

	"github.com/atotto/clipboard"
	"github.com/fatih/color"
)

func main() {
	// 0. Initialize Tracer (disabled unless OTEL_ENABLED=true)
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	// 1. Load Configuration
	cfg := config.Load()

	// 2. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(cfg)
	defer container.Logger.Sync()

	console := newConsole(container)

	// 3. Start Background Event Consumer
	go func() {
		if err := console.consumeEvents(context.Background()); err != nil {
			container.Logger.Error("Console", "event consumer failed", map[string]interface{}{"error": err.Error()})
		}
	}()

	// 4. Run Console Loop
	console.run(context.Background())
}

type console struct {
	container *bootstrap.Container
	surface   *terminalSurface
	navigator *navigate.Navigator

	mu        sync.Mutex
	sections  []entity.Section
	citations []entity.Citation
}

func newConsole(container *bootstrap.Container) *console {
	surface := &terminalSurface{baseURL: container.Config.App.BaseURL}
	return &console{
		container: container,
		surface:   surface,
		navigator: navigate.NewNavigator(surface, systemClipboard{}, container.Logger),
	}
}

// consumeEvents re-renders whenever the query lifecycle reaches a
// terminal state.
func (c *console) consumeEvents(ctx context.Context) error {
	messages, err := c.container.PubSub.Subscribe(ctx, constant.AnswerEventTopic)
	if err != nil {
		return err
	}
	for msg := range messages {
		c.render()
		msg.Ack()
	}
	return nil
}

func (c *console) run(ctx context.Context) {
	color.Cyan("rag-console — 输入问题开始查询，:help 查看命令")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, ":") {
			if quit := c.handleCommand(ctx, line); quit {
				return
			}
			continue
		}

		c.container.QueryService.Submit(ctx, line, c.defaultOptions())
		color.Yellow("查询已提交...")
	}
}

func (c *console) handleCommand(ctx context.Context, line string) bool {
	fields := strings.Fields(line)
	cmd, args := fields[0], fields[1:]

	switch cmd {
	case ":quit", ":q":
		return true
	case ":help":
		printHelp()
	case ":status":
		c.showStatus(ctx)
	case ":upload":
		c.upload(ctx, args)
	case ":clear":
		c.clearIndex(ctx)
	case ":feedback":
		c.container.QueryService.SubmitFeedback(ctx, strings.Join(args, " "), nil)
		color.Yellow("反馈已提交，重新查询中...")
	case ":session":
		c.showSession()
	case ":reset":
		c.container.QueryService.Reset()
		color.Yellow("会话已重置")
	case ":open":
		if len(args) == 1 {
			c.open(args[0])
		}
	case ":copy":
		if len(args) == 1 {
			c.navigator.CopyLink(args[0])
			color.Green("链接已复制: %s", c.surface.AbsoluteURL())
		}
	case ":hide":
		c.container.QueryService.SetVisible(false)
	case ":show":
		c.container.QueryService.SetVisible(true)
		c.render()
	default:
		color.Red("未知命令: %s", cmd)
	}
	return false
}

func (c *console) defaultOptions() entity.QueryOptions {
	retrieval := c.container.Config.Retrieval
	return entity.QueryOptions{
		DocOnly:   retrieval.DocOnly,
		AllowWeb:  retrieval.AllowWeb,
		WebMode:   retrieval.WebMode,
		UseRerank: retrieval.UseRerank,
		TopK:      retrieval.DefaultTopK,
		SessionId: c.sessionId(),
	}
}

func (c *console) sessionId() string {
	return c.container.QueryService.Snapshot().SessionId
}

// render recomputes sections and citation matches from the latest
// answer and prints them. Nothing derived is kept between renders
// except the counts the navigator needs for late-arrival syncing.
func (c *console) render() {
	snapshot := c.container.QueryService.Snapshot()

	if snapshot.ErrorText != "" {
		color.Red("✗ %s", snapshot.ErrorText)
		return
	}
	if snapshot.Answer == nil {
		return
	}

	answer := snapshot.Answer
	sections := c.container.Decomposer.Decompose(answer.Raw, answer.Mode, answer.Citations)

	c.mu.Lock()
	c.sections = sections
	c.citations = answer.Citations
	c.mu.Unlock()

	if len(sections) == 0 {
		color.Yellow(constant.MsgEmptyAnswer)
		return
	}

	titleColor := color.New(color.FgCyan, color.Bold)
	anchorColor := color.New(color.Faint)
	citeColor := color.New(color.FgGreen)
	markColor := color.New(color.BgYellow, color.FgBlack)
	highlighted := c.navigator.Highlighted()

	for _, section := range sections {
		titleColor.Printf("\n### %s", section.Title)
		if section.AnchorId == highlighted {
			markColor.Printf(" ※")
		}
		anchorColor.Printf("  #%s\n", section.AnchorId)
		fmt.Println(section.Body)

		for _, idx := range section.Citations {
			if idx < 0 || idx >= len(answer.Citations) {
				continue
			}
			cit := answer.Citations[idx]
			label := citation.Label(cit)
			if cit.Score != nil {
				label += " · " + citation.FormatScore(*cit.Score)
			}
			citeColor.Printf("  [%s] %s\n", navigate.CitationAnchor(cit), label)
		}
	}

	if len(answer.Suggestions) > 0 {
		color.Magenta("\n猜你想问:")
		for _, s := range answer.Suggestions {
			fmt.Printf("  - %s\n", s)
		}
	}

	c.navigator.Sync(sections, answer.Citations)
}

func (c *console) open(fragment string) {
	c.mu.Lock()
	sections, citations := c.sections, c.citations
	c.mu.Unlock()

	c.navigator.Open(strings.TrimPrefix(fragment, "#"), sections, citations)
}

func (c *console) showSession() {
	id := c.sessionId()
	if id == "" {
		color.Yellow("尚未开始会话")
		return
	}
	fmt.Printf("会话: %s\n", id)
	if feedback := c.container.Sessions.AggregatedFeedback(id); feedback != "" {
		fmt.Printf("累计反馈: %s\n", feedback)
	}
}

func (c *console) showStatus(ctx context.Context) {
	status, err := c.container.IndexService.Status(ctx)
	if err != nil {
		color.Red("获取索引状态失败")
		return
	}
	fmt.Printf("文档: %d  片段: %d  更新时间: %s\n", status.Documents, status.Chunks, status.UpdatedAt)
}

func (c *console) upload(ctx context.Context, paths []string) {
	if len(paths) == 0 {
		color.Red("用法: :upload <文件...>")
		return
	}
	summaries, err := c.container.IndexService.Upload(ctx, paths)
	if errors.Is(err, service.ErrUnsupportedFile) {
		color.Red("不支持的文件类型: %v", err)
		return
	}
	if err != nil {
		color.Red("上传失败")
		return
	}
	for _, s := range summaries {
		color.Green("✓ %s (%d 片段)", s.Filename, s.Chunks)
	}
}

func (c *console) clearIndex(ctx context.Context) {
	fmt.Print("确认清空索引? [y/N] ")
	scanner := bufio.NewScanner(os.Stdin)
	if !scanner.Scan() || strings.ToLower(strings.TrimSpace(scanner.Text())) != "y" {
		return
	}
	message, err := c.container.IndexService.Clear(ctx)
	if err != nil {
		color.Red("清空索引失败")
		return
	}
	color.Green("✓ %s", message)
}

func printHelp() {
	fmt.Println(`命令:
  :status            查看索引状态
  :upload <文件...>  上传文档
  :clear             清空索引
  :feedback <文本>   携带反馈重新提问
  :session           查看会话与累计反馈
  :reset             重置会话并放弃进行中的查询
  :open <锚点>       跳转到段落或引用锚点
  :copy <锚点>       复制段落/引用深链
  :hide / :show      模拟失焦/回焦（轮询挂起与恢复）
  :quit              退出`)
}

// terminalSurface adapts the terminal to the navigator's Surface
// contract: the "address bar" is a held fragment, scrolling is a jump
// marker, highlighting is color.
type terminalSurface struct {
	mu       sync.Mutex
	baseURL  string
	fragment string
}

func (t *terminalSurface) Fragment() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.fragment
}

func (t *terminalSurface) SetFragment(fragment string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.fragment = fragment
}

func (t *terminalSurface) AbsoluteURL() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.fragment == "" {
		return t.baseURL
	}
	return t.baseURL + "#" + t.fragment
}

func (t *terminalSurface) ScrollTo(anchor string) {
	color.New(color.FgHiWhite, color.Bold).Printf("→ #%s\n", anchor)
}

func (t *terminalSurface) SetHighlight(anchor string, on bool) {
	if on {
		color.New(color.BgYellow, color.FgBlack).Printf("※ #%s\n", anchor)
	}
}

type systemClipboard struct{}

func (systemClipboard) Write(text string) error {
	return clipboard.WriteAll(text)
}
