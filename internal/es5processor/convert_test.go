package es5processor_test

import (
	"strings"
	"testing"

	"github.com/tsickle-go/tsickle/internal/es5processor"
)

func TestConvert_RewritesRequireAndExports(t *testing.T) {
	host := es5processor.DefaultHost{RootDir: "/root/src"}
	input := strings.Join([]string{
		`"use strict";`,
		`Object.defineProperty(exports, "__esModule", { value: true });`,
		`var user_service_1 = require("./user.service");`,
		`exports.UserController = void 0;`,
		`exports.UserController = user_service_1.UserService;`,
	}, "\n")

	out := es5processor.Convert(host, "/root/src/user/controller.ts", "user/controller", input, nil)

	if !strings.Contains(out, "goog.module('user.controller');") {
		t.Errorf("missing goog.module statement:\n%s", out)
	}
	if !strings.Contains(out, "var module = module || {id: 'user/controller'};") {
		t.Errorf("missing module id line:\n%s", out)
	}
	if strings.Contains(out, `Object.defineProperty(exports, "__esModule"`) {
		t.Errorf("esModule marker should have been dropped:\n%s", out)
	}
	if !strings.Contains(out, "var user_service_1 = goog.require('user.user_service');") {
		t.Errorf("require line not rewritten:\n%s", out)
	}
	if strings.Contains(out, "exports = {};") {
		t.Errorf("fallback exports assignment should not appear when an exports.X = ... line exists:\n%s", out)
	}
}

func TestConvert_SideEffectRequire(t *testing.T) {
	host := es5processor.DefaultHost{}
	input := `require("reflect-metadata");`

	out := es5processor.Convert(host, "main.ts", "main", input, nil)

	if !strings.Contains(out, "goog.require('reflect_metadata');") {
		t.Errorf("side-effect require not rewritten:\n%s", out)
	}
}

func TestConvert_BarePackageSpecifier(t *testing.T) {
	host := es5processor.DefaultHost{RootDir: "/root/src"}
	input := `var rxjs_1 = require("rxjs");`

	out := es5processor.Convert(host, "/root/src/a.ts", "a", input, nil)

	if !strings.Contains(out, "goog.require('rxjs')") {
		t.Errorf("bare specifier should pass through PathToModuleName as-is:\n%s", out)
	}
}

func TestConvert_ReExportStar(t *testing.T) {
	host := es5processor.DefaultHost{RootDir: "/root/src"}
	input := `__exportStar(require("./helpers"), exports);`

	out := es5processor.Convert(host, "/root/src/index.ts", "index", input, nil)

	if !strings.Contains(out, "goog.require('helpers')") {
		t.Errorf("re-export star target not resolved:\n%s", out)
	}
	if !strings.Contains(out, "exports[p_] = ") {
		t.Errorf("re-export star copy loop missing:\n%s", out)
	}
	if strings.Contains(out, "exports = {};") {
		t.Errorf("re-export star counts as an exports assignment, fallback should not appear:\n%s", out)
	}
}

func TestConvert_NoExportsAddsEmptyAssignment(t *testing.T) {
	host := es5processor.DefaultHost{}
	input := `"use strict";`

	out := es5processor.Convert(host, "empty.ts", "empty", input, nil)

	if !strings.Contains(out, "exports = {};") {
		t.Errorf("expected fallback exports assignment for a file with no exports:\n%s", out)
	}
}

func TestConvert_TypeOnlyExportsEmitTypedef(t *testing.T) {
	host := es5processor.DefaultHost{}
	out := es5processor.Convert(host, "types.ts", "types", `"use strict";`, es5processor.TypeOnlyExports{"Widget": true})

	if !strings.Contains(out, "@typedef {?}") || !strings.Contains(out, "exports.Widget;") {
		t.Errorf("expected a @typedef stub for the type-only export:\n%s", out)
	}
}

func TestConvert_IsIdempotent(t *testing.T) {
	host := es5processor.DefaultHost{}
	first := es5processor.Convert(host, "a.ts", "a", `exports.x = 1;`, nil)
	second := es5processor.Convert(host, "a.ts", "a", first, nil)

	if first != second {
		t.Errorf("converting already-converted output should be a no-op:\nfirst:\n%s\nsecond:\n%s", first, second)
	}
}

func TestDefaultHost_FileNameToModuleId(t *testing.T) {
	host := es5processor.DefaultHost{RootDir: "/root/src"}

	got := host.FileNameToModuleId("/root/src/user/user.service.ts")
	want := "user.user_service"
	if got != want {
		t.Errorf("FileNameToModuleId() = %q, want %q", got, want)
	}
}

func TestDefaultHost_PathToModuleName_Relative(t *testing.T) {
	host := es5processor.DefaultHost{RootDir: "/root/src"}

	got := host.PathToModuleName("/root/src/user/controller.ts", "../shared/logger")
	want := "shared.logger"
	if got != want {
		t.Errorf("PathToModuleName() = %q, want %q", got, want)
	}
}
