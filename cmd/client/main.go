package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/todonext/backend/internal/client/adapter"
	clientSession "github.com/todonext/backend/internal/client/session"
	"github.com/todonext/backend/internal/client/store"
	"github.com/todonext/backend/internal/domain/todo"
	"github.com/todonext/backend/internal/infrastructure/config"
	applog "github.com/todonext/backend/internal/infrastructure/log"
)

func main() {
	// 初始化日志系统
	applog.Init(nil)

	cfg := config.NewConfig()

	// 身份提供方：远程模式走服务端换发接口，本地模式用本地签发
	var provider clientSession.Provider
	if cfg.Client.Mode == config.ModeRemote {
		provider = clientSession.NewHTTPProvider(cfg)
	} else {
		provider = clientSession.NewDevProvider(cfg)
	}
	gate := clientSession.NewGate(provider)

	// 持久化适配器按模式选择
	var ad adapter.Adapter
	if cfg.Client.Mode == config.ModeRemote {
		ad = adapter.NewRemoteStore(cfg, gate.Token)
	} else {
		ad = adapter.NewLocalStore(cfg)
	}

	s := store.NewStore(ad, gate, cfg)
	defer s.Close()

	// 推送和会话变化到达时重新渲染
	s.AddNotifier(store.NotifierFunc(func(n store.Notification) {
		if n.Status == store.StatusReady {
			render(n.Todos)
		}
	}))

	fmt.Printf("todonext (%s mode) — 输入 help 查看命令\n", cfg.Client.Mode)

	// 本地模式无需登录，直接加载
	if cfg.Client.Mode == config.ModeLocal {
		if err := s.Load(); err != nil {
			fmt.Println("加载失败:", err)
			os.Exit(1)
		}
	} else {
		fmt.Println("远程模式：先用 login <用户名> 登录")
	}

	repl(s, gate, cfg.Client.Mode)
}

// repl 逐行读取命令并执行
func repl(s *store.Store, gate *clientSession.Gate, mode string) {
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

		cmd, arg := line, ""
		if i := strings.IndexByte(line, ' '); i >= 0 {
			cmd, arg = line[:i], strings.TrimSpace(line[i+1:])
		}

		switch cmd {
		case "help":
			printHelp()
		case "list":
			render(s.Snapshot())
		case "add":
			if err := s.Add(arg); err != nil {
				fmt.Println("新增失败:", err)
			}
		case "done":
			withID(s, arg, s.ToggleCompleted)
		case "star":
			withID(s, arg, s.ToggleImportant)
		case "rm":
			withID(s, arg, s.Delete)
		case "login":
			if _, err := gate.SignIn(context.Background(), arg); err != nil {
				fmt.Println("登录失败:", err)
				continue
			}
			if mode == config.ModeLocal {
				// 本地模式登录不影响数据，仅记录会话
				fmt.Println("已登录（本地模式下数据不区分用户）")
			}
		case "logout":
			gate.SignOut()
		case "quit", "exit":
			return
		default:
			fmt.Println("未知命令:", cmd)
			printHelp()
		}
	}
}

// printHelp 打印命令说明
func printHelp() {
	fmt.Println(`命令:
  list          显示待办列表
  add <内容>    新增待办
  done <序号>   翻转完成标记
  star <序号>   翻转重要标记
  rm <序号>     删除待办
  login <用户>  登录
  logout        登出
  quit          退出`)
}

// withID 将序号参数解析为待办 ID 后执行操作
func withID(s *store.Store, arg string, fn func(string) error) {
	items := s.Snapshot()
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 || n > len(items) {
		fmt.Println("请输入 list 中显示的序号")
		return
	}
	if err := fn(items[n-1].ID); err != nil {
		fmt.Println("操作失败:", err)
	}
}

// render 打印待办列表
func render(items []todo.Todo) {
	if len(items) == 0 {
		fmt.Println("(没有待办)")
		return
	}
	for i, item := range items {
		check := " "
		if item.Completed {
			check = "x"
		}
		star := " "
		if item.Important {
			star = "★"
		}
		fmt.Printf("%2d. [%s]%s %s\n", i+1, check, star, item.Text)
	}
}
