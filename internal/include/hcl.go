package include

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"github.com/mbrock/eslaunch/internal/config"
)

// hclOverrides is the schema of an .hcl include file. Every attribute is
// optional; absent attributes leave the environment untouched.
type hclOverrides struct {
	JavaHome     *string           `hcl:"java_home,optional"`
	Classpath    *string           `hcl:"classpath,optional"`
	JavaOpts     *string           `hcl:"java_opts,optional"`
	StartupSleep *string           `hcl:"startup_sleep,optional"`
	Env          map[string]string `hcl:"env,optional"`
}

func applyHCL(path string, env config.Environment) error {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return diags
	}

	var o hclOverrides
	if diags := gohcl.DecodeBody(file.Body, evalContext(env), &o); diags.HasErrors() {
		return diags
	}

	set := func(key string, v *string) {
		if v != nil {
			env.Set(key, *v)
		}
	}
	set(config.EnvJavaHome, o.JavaHome)
	set(config.EnvClasspath, o.Classpath)
	set(config.EnvJavaOpts, o.JavaOpts)
	set(config.EnvStartupSleep, o.StartupSleep)
	for k, v := range o.Env {
		env.Set(k, v)
	}
	return nil
}

// evalContext exposes the environment snapshot as the env object, so an
// include can write java_opts = "${env.ES_JAVA_OPTS} -Xss1m".
func evalContext(env config.Environment) *hcl.EvalContext {
	vars := make(map[string]cty.Value, len(env))
	for k, v := range env {
		vars[k] = cty.StringVal(v)
	}
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"env": cty.ObjectVal(vars),
		},
	}
}
